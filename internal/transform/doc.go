// Package transform implements the semantic passes that run once every
// segment exists.
//
// Passes mutate segments in place. InternalTag and RenameAll work on one
// sum type at a time and report whether they changed it; a pass that
// cannot safely infer its result leaves the segment untouched. Flatten is
// the only pass that removes segments. Borrow needs the dependency graph
// and fails on a cycle.
package transform
