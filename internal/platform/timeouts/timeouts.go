// Package timeouts defines the timeout constants shared by the server and
// its outbound calls.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Relay caps a single outbound email-relay request.
const Relay = 10 * time.Second

// StreamTick is the sampling interval for the role typewriter stream.
const StreamTick = 10 * time.Millisecond
