// Package types implements SecreC's value-type model: security types,
// data types, dimensionality, full value types, type arguments and
// compile-time constants.
//
// Every type and constant is a flyweight: two values that are structurally
// equal are also the same pointer, because they are only ever constructed
// through a *Context's lookup-or-insert methods. This lets every other
// package in the compiler compare types with ==, and lets the dataflow
// lattices (package dataflow) use pointer identity as their equality.
package types
