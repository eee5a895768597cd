// Package state implements the shared state threaded through the discovery
// loop: an immutable container of variable declarations, accumulated
// observations, the current condition pool, and the fitted-model history,
// together with the delta protocol that folds stage outputs back in.
//
// Containers are values. A stage never mutates its input; it returns a
// partial Delta that Merge combines into a successor container. A failed
// stage therefore leaves the last good container intact, and the container's
// evolution is a replayable sequence of values.
package state
