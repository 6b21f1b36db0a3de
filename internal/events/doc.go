// Package events publishes loan lifecycle events.
//
// Services emit an Event after a loan is created, returned or deleted.
// InMemoryEventEmitter fans each event out to registered handlers; LogHandler
// records them in the structured log.
package events
