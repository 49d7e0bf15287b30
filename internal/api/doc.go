// Package api provides HTTP handlers for the catalog API.
//
// Handlers translate between the JSON wire format and the domain layer:
// course payloads are flattened (taxonomy entities appear as their natural
// keys, not nested objects with IDs), and internal errors are mapped to
// status codes and sanitized messages before they reach the client.
package api
