// Package types is the type model shared by source-parsed and reflected
// declarations.
//
// A Ref is an abstract, possibly lazy pointer to a type. It comes in five
// variants: Primitive, Named, Array, Instance and Param. A TypeDecl is the
// declaration a Ref may resolve to, and a Member is one field, property,
// method, event or local variable. Resolve maps a Ref to its TypeDecl through a
// Lookup (normally a *symbols.Table). A miss is reported as (nil, false) and is
// never an error.
//
// Members and nested types keep weak back-references to their declaring type,
// so a member held by a short-lived resolve result never pins a rebuilt table
// in memory.
package types
