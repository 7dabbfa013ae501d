// Package pipeline orchestrates one episode run.
//
// The stages run in order: scrape (or load the raw transcript), preprocess (or
// load the preprocessed transcript), assign voices, then per chapter
// synthesize segments and assemble the combined audio. Each stage treats an
// existing output file as already done, so re-running the same URL resumes
// where the last run stopped. A per-episode lock file keeps two runs from
// working on the same episode at once.
package pipeline
