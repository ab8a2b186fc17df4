// Package main hosts the descant CLI entrypoint and command graph.
//
// The Cobra-based command tree covers describing a video end to end,
// listing past runs from the journal, environment checks, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience.
//
// Keep this package lean: extend the internal packages first, then
// surface new functionality through dedicated commands or flags here.
package main
