package shell

// DemoScript builds a five track playlist, plays from the start, advances,
// loops the last played track and then removes the first two tracks.
// The queue keeps its contents after the removal.
const DemoScript = `
add Song 1
add Song 2
add Song 3
add Song 4
add Song 5
list
play 0
next
loop-last
queue
remove-range 0 2
list
queue
add New Song
list
`
