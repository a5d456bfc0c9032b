// Package server implements the HTTP and WebSocket server functionality for wsecho.
//
// Requests to the WebSocket path are upgraded and each connection echoes every
// message back to its sender; all other paths are served from the static
// asset directory. The implementation is split into files for connections,
// the connection registry, routing, middleware and static assets.
package server
