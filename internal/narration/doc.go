// Package narration decides where generated audio description belongs
// on a video's timeline. The synchronizer walks the speech segmentation
// in time order, collects the visual scenes overlapping each window,
// suppresses near-duplicate descriptions, and emits the ordered edit
// list the renderer assembles into the final video.
package narration
