// Package shared holds the HTTP plumbing used by the api handlers and
// middleware: JSON encoding and decoding, request validation, error
// responses and trace IDs.
package shared
