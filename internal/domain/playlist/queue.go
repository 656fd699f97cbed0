package playlist

import (
	"slices"

	zlog "github.com/rs/zerolog/log"
)

// regenerateLocked replaces the queue with a freshly generated one.
// Shuffled queues hold every item in random order and ignore from.
// Ordered queues hold items[from:] in playlist order.
// from must be within [0, len(items)].
// Must be called with lock held.
func (p *Playlist[T]) regenerateLocked(from int) {
	var queue []T
	if p.shuffle {
		queue = p.shuffledLocked()
	} else {
		queue = slices.Clone(p.items[from:])
	}

	// Swap in the finished queue in one assignment
	p.queue = queue

	zlog.Debug().Msgf("playlist: queue regenerated: shuffle=%v from=%d size=%d", p.shuffle, from, len(queue))
	p.notifyLocked(Event{Type: EventQueueGenerated, Shuffled: p.shuffle})
}

// shuffledLocked returns a random permutation of the playlist items by
// repeatedly taking a uniformly random item from the remaining pool.
// Must be called with lock held.
func (p *Playlist[T]) shuffledLocked() []T {
	pool := slices.Clone(p.items)
	queue := make([]T, 0, len(pool))

	for len(pool) > 0 {
		i := p.rng.IntN(len(pool))
		queue = append(queue, pool[i])

		// Remove the picked item so it can't be picked again
		last := len(pool) - 1
		pool[i] = pool[last]
		pool = pool[:last]
	}

	return queue
}
