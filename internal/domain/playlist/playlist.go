// Package playlist provides the playlist engine: an ordered list of items
// and the play queue derived from it.
package playlist

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

// noSelection marks currentIndex as unset.
const noSelection = -1

// Config holds playlist configuration.
type Config struct {
	Shuffle  bool       // Generate shuffled queues
	Loop     bool       // Regenerate the queue when PlayNext finds it empty
	Rand     *rand.Rand // Random source for shuffling (randomly seeded when nil)
	Observer Observer   // Optional event observer
}

// Playlist holds an ordered list of items and a play queue generated from it.
// The queue is a snapshot: mutating the playlist never changes a queue that
// was already generated.
type Playlist[T any] struct {
	mu sync.Mutex

	items []T // Playlist order
	queue []T // Upcoming items, head first

	currentIndex int // Selected index into items, noSelection until set
	lastPlayed   T
	hasPlayed    bool

	shuffle bool
	loop    bool

	rng      *rand.Rand
	observer Observer
}

// New creates an empty playlist.
func New[T any](config Config) *Playlist[T] {
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Playlist[T]{
		items:        make([]T, 0),
		queue:        make([]T, 0),
		currentIndex: noSelection,
		shuffle:      config.Shuffle,
		loop:         config.Loop,
		rng:          rng,
		observer:     config.Observer,
	}
}

// Add appends an item to the end of the playlist.
func (p *Playlist[T]) Add(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = append(p.items, item)
}

// AddAll appends items to the playlist in order.
func (p *Playlist[T]) AddAll(items []T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = append(p.items, items...)
}

// Remove removes the item at index.
func (p *Playlist[T]) Remove(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.validIndexLocked(index) {
		return indexOutOfRange(index, len(p.items))
	}
	p.items = slices.Delete(p.items, index, index+1)
	return nil
}

// RemoveCurrentSelection removes the item at the current selection.
// The selection index itself is left unchanged.
func (p *Playlist[T]) RemoveCurrentSelection() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.validIndexLocked(p.currentIndex) {
		return indexOutOfRange(p.currentIndex, len(p.items))
	}
	p.items = slices.Delete(p.items, p.currentIndex, p.currentIndex+1)
	return nil
}

// RemoveRange removes the items in [start, end).
// Bounds are validated before anything is removed.
func (p *Playlist[T]) RemoveRange(start, end int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if start < 0 || end < 0 || start > end || end > len(p.items) {
		return rangeOutOfRange(start, end, len(p.items))
	}
	p.items = slices.Delete(p.items, start, end)
	return nil
}

// Select sets the current selection.
func (p *Playlist[T]) Select(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.validIndexLocked(index) {
		return indexOutOfRange(index, len(p.items))
	}
	p.currentIndex = index
	return nil
}

// SetShuffle sets the shuffle mode used by the next queue generation.
func (p *Playlist[T]) SetShuffle(shuffle bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shuffle = shuffle
}

// SetLoop sets whether PlayNext regenerates an empty queue.
func (p *Playlist[T]) SetLoop(loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = loop
}

// Shuffle reports the shuffle mode.
func (p *Playlist[T]) Shuffle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffle
}

// Loop reports the loop mode.
func (p *Playlist[T]) Loop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop
}

// Play regenerates the queue starting at index, selects index and returns the
// item at index. The queue is not consumed, so in ordered mode the following
// PlayNext returns the same item again.
func (p *Playlist[T]) Play(index int) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.validIndexLocked(index) {
		var zero T
		return zero, indexOutOfRange(index, len(p.items))
	}

	p.currentIndex = index
	p.regenerateLocked(index)

	item := p.items[index]
	p.playedLocked(item)
	return item, nil
}

// PlayCurrentSelection regenerates the queue starting at the current
// selection and plays its head.
func (p *Playlist[T]) PlayCurrentSelection() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero T
	if p.currentIndex == noSelection {
		return zero, errors.Wrap(ErrInvalidState, "no item selected")
	}
	if !p.validIndexLocked(p.currentIndex) {
		return zero, indexOutOfRange(p.currentIndex, len(p.items))
	}

	p.regenerateLocked(p.currentIndex)

	item, _ := p.popLocked()
	p.playedLocked(item)
	return item, nil
}

// PlayNext plays the head of the queue.
// When the queue is empty and loop is enabled, the queue is first regenerated
// from the start of the playlist. Returns false when nothing is left to play.
func (p *Playlist[T]) PlayNext() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 && p.loop {
		p.regenerateLocked(0)
	}

	item, ok := p.popLocked()
	if !ok {
		p.notifyLocked(Event{Type: EventQueueExhausted})
		return item, false
	}

	p.playedLocked(item)
	return item, true
}

// LoopLastPlayed pushes the last played item onto the front of the queue.
func (p *Playlist[T]) LoopLastPlayed() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasPlayed {
		return errors.Wrap(ErrInvalidState, "nothing has been played")
	}
	p.pushFrontLocked(p.lastPlayed)
	return nil
}

// LoopCurrentSelection pushes the selected item onto the front of the queue.
func (p *Playlist[T]) LoopCurrentSelection() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentIndex == noSelection {
		return errors.Wrap(ErrInvalidState, "no item selected")
	}
	if !p.validIndexLocked(p.currentIndex) {
		return indexOutOfRange(p.currentIndex, len(p.items))
	}
	p.pushFrontLocked(p.items[p.currentIndex])
	return nil
}

// Items returns a copy of the playlist items.
func (p *Playlist[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

// Queue returns a copy of the play queue, head first.
func (p *Playlist[T]) Queue() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.queue)
}

// Len returns the number of playlist items.
func (p *Playlist[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// QueueLen returns the number of queued items.
func (p *Playlist[T]) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Selection returns the current selection index.
// The index may be stale if the playlist shrank after it was set.
func (p *Playlist[T]) Selection() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.currentIndex == noSelection {
		return 0, false
	}
	return p.currentIndex, true
}

// LastPlayed returns the most recently played item.
func (p *Playlist[T]) LastPlayed() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPlayed, p.hasPlayed
}

func (p *Playlist[T]) validIndexLocked(index int) bool {
	return 0 <= index && index < len(p.items)
}

// popLocked removes and returns the queue head.
// Must be called with lock held.
func (p *Playlist[T]) popLocked() (T, bool) {
	if len(p.queue) == 0 {
		var zero T
		return zero, false
	}
	item := p.queue[0]
	p.queue = p.queue[1:]
	return item, true
}

// pushFrontLocked prepends item to the queue.
// Must be called with lock held.
func (p *Playlist[T]) pushFrontLocked(item T) {
	queue := make([]T, 0, len(p.queue)+1)
	queue = append(queue, item)
	queue = append(queue, p.queue...)
	p.queue = queue

	p.notifyLocked(Event{Type: EventItemLooped})
}

// playedLocked records item as the last played item.
// Must be called with lock held.
func (p *Playlist[T]) playedLocked(item T) {
	p.lastPlayed = item
	p.hasPlayed = true
	p.notifyLocked(Event{Type: EventItemPlayed})
}

// notifyLocked forwards e to the observer, filling in the queue length.
// Must be called with lock held.
func (p *Playlist[T]) notifyLocked(e Event) {
	if p.observer == nil {
		return
	}
	e.QueueLen = len(p.queue)
	p.observer.Observe(e)
}
