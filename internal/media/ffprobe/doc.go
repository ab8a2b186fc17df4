// Package ffprobe wraps the ffprobe binary for media inspection.
//
// The pipeline uses it to read container duration before segmentation and to
// confirm a source actually carries the video and audio streams a run needs.
package ffprobe
