// Package selector provides pure helpers for reading and deriving values from
// state: key and path access, memoization, selector composition and
// immutable patching.
//
// None of these functions fail. Absence is reported as (zero, false).
//
// Memoize and Tableize assume the wrapped function is pure. Memoize keeps only
// the most recent call and compares inputs by identity: scalars by value,
// pointers, maps and slices by reference, so two distinct pointers to equal
// structs are two different inputs. Tableize keeps a bounded table of
// results keyed by the printed input.
package selector
