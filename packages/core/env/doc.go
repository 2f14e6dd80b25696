// Package env handles environment files and placeholder substitution.
//
// It provides functionality for:
//   - Loading dotenv files supplied with -e
//   - Substituting {{env:NAME}} placeholders from the environment
//   - Substituting {{expr:FN}} placeholders via the builtin registry
//
// A placeholder that cannot be resolved is an error, never left as a
// literal in the outgoing request.
package env
