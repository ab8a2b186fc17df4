// Package ollama is a minimal client for a local Ollama server.
//
// The pipeline uses two endpoints: /api/generate with frame images for
// scene descriptions, and /api/embed for the embedding-based description
// deduplicator.
package ollama
