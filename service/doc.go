// Package service maps capability tags to implementations.
//
// A Tag names a capability. Its identity is the interned name, not the Go
// type parameter: two tags created with the same name in the same Interner
// address the same registry slot. Type safety is a compile-time matter of the
// Tag's type parameter; the registry itself stores untyped values and does not
// validate them.
//
// Registries form chains. Provide only ever writes to the receiving registry,
// while Lookup walks from the receiver to its ancestors.
package service
