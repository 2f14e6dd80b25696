// Package schema validates .kuiper request files and headers.json
// overlays against embedded JSON Schemas, reporting every violation
// instead of stopping at the first.
package schema
