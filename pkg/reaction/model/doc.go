// Package model provides the data structures shared between the reaction
// package and its observers and drawers: the description of a chain
// position and the lifecycle notifications emitted while a chain runs.
package model
