// Package timeline models a video's time axis as ordered interval
// sequences and provides the segmentation primitives the pipeline is
// built on: speech/pause blocks derived from word-level transcription
// timestamps, visual scene blocks derived from shot-boundary signals,
// and a duration-based merge pass applied to either stream.
package timeline
