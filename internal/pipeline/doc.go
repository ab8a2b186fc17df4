// Package pipeline orchestrates a full description run: normalize the
// source, transcribe speech, detect visual scenes, synchronize narration
// against the speech pauses, and render the final video. Each stage
// records its progress in the run journal so interrupted or failed runs
// remain inspectable afterwards.
package pipeline
