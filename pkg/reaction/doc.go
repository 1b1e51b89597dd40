// Package reaction provides a small chain-composition engine: a builder that
// chains a sequence of fallible transformation steps over an evolving value,
// short-circuiting on the first failure, branching conditionally, mapping
// over slices and folding slices to a single value, while recording how long
// each executed step took.
//
// A chain is built with Input (or From) and the package-level functions Then,
// IfElse, ForEach and Merge. Building is purely descriptive: no step executes
// before Run. Every chaining call returns a new builder sharing the already
// built prefix, so a builder can be extended in different directions, shared
// between goroutines and run any number of times.
//
// Run executes the steps in order on the calling goroutine. A step failure is
// a value, not a panic: once a step fails, no further step executes and Run
// returns the failure together with the timing log of the steps that did run.
package reaction
