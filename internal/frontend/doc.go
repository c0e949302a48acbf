// Package frontend lowers parsed declarations into the IR.
//
// Each module-level declaration appends zero or more segments. Anonymous
// object and union types are hoisted into their own segments and named from
// the path of declarations and fields that leads to them; naming is
// deterministic for a given document.
package frontend
