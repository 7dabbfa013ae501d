// Package transcript defines the episode data model shared by every pipeline
// stage: chapters of speaker/text segments, speaker roles, and the JSON
// document format used for the raw and preprocessed transcript files.
//
// The document on disk is a JSON array of chapters, each carrying "no",
// "title", and "segments". Chapter numbers may be numbers or strings.
package transcript
