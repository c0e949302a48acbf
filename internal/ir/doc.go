// Package ir provides the intermediate representation shared by the tsbind
// frontend, transformation passes, and emitter.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Every top-level named output is a Segment: a Record, a SumType, or an
//     Alias. Segment names are unique within a Schema.
//   - Every KindNamed Type must resolve to exactly one Segment of the same
//     Schema. A dangling reference is a compiler bug, never a user error.
//   - Placeholder kinds (KindUnknown*) mark deliberate gaps; they are never
//     walked for references and are rendered as explicitly named types.
//   - Passes mutate segments in place; only the flatten pass removes them.
package ir
