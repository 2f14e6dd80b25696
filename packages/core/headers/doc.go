// Package headers implements the layered header-merge rule at the
// heart of kuiper.
//
// Every directory between the traversal root and a request file may
// carry a headers.json overlay. Overlays are folded root-most first,
// the request file's own headers last, so the layer closest to the
// request always wins. A null value acts as a tombstone that removes
// an inherited header; a deeper layer may set it again.
package headers
