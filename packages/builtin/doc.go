// Package builtin provides the functions available behind the
// {{expr:...}} placeholder: generated values such as uuid, now,
// timestamp, randomString and base64.
package builtin
