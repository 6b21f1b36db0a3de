// Package api exposes the library catalog over HTTP. Handlers decode and
// validate requests, call the services, and translate results and errors into
// the JSON envelopes clients see. Route registration lives in cmd/server.
package api
