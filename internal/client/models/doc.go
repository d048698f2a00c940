// Package models defines the blog API payloads and the client-side
// registration state. Every type here is a per-endpoint result type:
// decoders reject payloads that miss required fields.
package models
