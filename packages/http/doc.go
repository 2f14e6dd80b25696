// Package http issues the single HTTP exchange for a resolved request
// descriptor.
//
// It wraps the standard library's http package with:
//   - Configurable timeout, redirect, TLS and proxy behavior
//   - URL building with encoded query params
//   - A response wrapper that records the exchange duration
package http
