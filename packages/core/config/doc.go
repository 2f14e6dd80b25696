// Package config handles workspace configuration for kuiper.
//
// A kuiper.config.json (or .yaml) file carries client settings and
// low-precedence default headers, and the directory holding it doubles
// as the traversal root: the ancestor walk for headers.json overlays
// never ascends past it. An empty .kuiper-root marker file bounds the
// walk without carrying settings.
package config
