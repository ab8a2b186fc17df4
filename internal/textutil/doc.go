// Package textutil provides lightweight text processing helpers:
// token-frequency fingerprints with cosine similarity for comparing
// narration text, and filename sanitization for derived output paths.
//
// Tokenization lowercases text, splits on non-alphanumeric runs, and
// drops tokens shorter than 3 characters.
package textutil
