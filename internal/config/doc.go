// Package config loads, normalizes, and validates descant configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OLLAMA_BASE_URL. The Config type centralizes every knob the pipeline and
// CLI need: staging and output directories, segmentation thresholds, the
// description and similarity backends, and encoding parameters.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
