// Package assembly owns the on-disk audio layout of an episode and joins
// per-segment WAV files into one file per chapter.
//
// Segment files are ordered by the numeric index in their name, so segment 10
// follows segment 9 rather than segment 1. All segments of a chapter must share
// sample rate, bit depth, and channel count. The combined file is written to a
// temp file and renamed into place, and an existing combined file is never
// rewritten.
package assembly
