// Package whisper runs the whisper CLI to obtain word-level timestamps.
//
// The service feeds it the mono 16kHz WAV extracted from the source and
// parses the JSON transcript it writes, yielding the word tokens the
// speech segmenter consumes.
package whisper
