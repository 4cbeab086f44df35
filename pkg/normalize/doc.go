// Package normalize fits a loaded model into a fixed viewing envelope.
//
// The steps mirror what a viewer does before taking a snapshot: measure the
// model's world-space bounds, scale it uniformly so its dominant dimension
// matches a target size, then wrap it in a parent node and move it so its
// geometry is centered on the parent's origin, optionally resting on Y = 0.
//
// Bounds are never cached. Every step recomputes them from the current
// transforms because the previous step has just changed them.
package normalize
