// Package output renders the outcome of an exchange to the user:
// a colorized console view or a machine-readable JSON document, with
// optional gjson path extraction from the response body.
package output
