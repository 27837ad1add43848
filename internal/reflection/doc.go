// Package reflection bridges externally compiled types into the type model.
//
// The external loader describes assemblies with plain descriptor structs
// (AssemblyDescriptor, ClassDescriptor, TypeDescriptor). FromExternal and
// ForMember turn a TypeDescriptor into a types.Ref, and Import turns a whole
// assembly into declarations on a symbols.Table. No host reflection is used.
package reflection
