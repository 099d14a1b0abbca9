// Package ast defines the syntax tree the type checker, template
// instantiator and code generator consume. There is no lexer or parser in
// this module (spec.md §1 "Non-goals"); trees are built programmatically
// through the Builder API, either by a caller's own front end or, in
// tests, directly.
//
// Every node carries a Kind() tag alongside its concrete Go type, so
// consumers can switch on Kind() or type-switch on the concrete type,
// go/ast style. The type checker and the code generator type-switch on
// the concrete type and report an unsupported-kind error at run time for
// a node kind they do not handle; a missing case there does not fail to
// compile. Dump instead implements Visitor and calls Accept, which
// double-dispatches to the matching Visit method, so a Visitor that lacks
// a Visit method fails to compile.
package ast
