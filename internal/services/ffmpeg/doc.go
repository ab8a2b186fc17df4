// Package ffmpeg wraps the ffmpeg binary for every media operation the
// pipeline performs: normalizing sources, extracting audio for
// transcription, cutting clips, grabbing frames for the vision model,
// building narration still clips, and concatenating the final edit list.
//
// All operations run through an injectable CommandRunner so tests can
// assert the exact argument lists without spawning processes.
package ffmpeg
