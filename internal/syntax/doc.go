// Package syntax parses the TypeScript-like declaration language consumed by
// tsbind.
//
// The parser is a collaborator of the compiler, not part of it: it produces a
// list of module-level declarations (interfaces and type aliases) and nothing
// else. Any parser that yields the same tree may be substituted.
//
// Only the subset of the language that appears in schema documents is
// accepted: exported interfaces with property and index signatures, type
// aliases, unions, intersections, arrays, tuples, object literals, string and
// number literal types, and (possibly generic) type references. Doc comments
// (/** ... */) are kept on declarations and members; all other comments are
// discarded.
package syntax
