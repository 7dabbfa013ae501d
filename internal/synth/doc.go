// Package synth renders transcript segments to audio files through a TTS
// backend.
//
// A segment whose audio file already exists is skipped without contacting the
// backend, which makes interrupted runs resumable. Segments at or above a
// length threshold are preceded by a short pause to stay under backend
// throughput limits.
package synth
