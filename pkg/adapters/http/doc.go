// Package http exposes a session.Manager over HTTP.
//
// The REST surface is described by the embedded openapi.yaml, which is also
// used to validate request bodies. Live sessions can be followed either as
// Server-Sent Events (GET /sessions/{id}/events) or over a WebSocket
// (GET /sessions/{id}/ws) that also accepts submissions. Both streams send
// the full snapshot first and then one domain.SnapshotDiff per change.
package http
