// Package request defines the render request collected from the user. A
// Request is built once through New, which applies the length bounds and
// clears the device whenever the mode is not the path-traced engine, and is
// not mutated afterwards.
package request
