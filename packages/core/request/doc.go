// Package request loads .kuiper request descriptors and resolves the
// header configuration they inherit from ancestor directories.
//
// Find performs the whole resolution: parse the file, ascend to the
// traversal root, fold every headers.json overlay on the way down,
// and apply the request's own headers as the highest-precedence
// layer. Interpolate then substitutes {{env:}} and {{expr:}}
// placeholders in the resulting descriptor.
package request
