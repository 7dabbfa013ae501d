// Package services defines shared utilities consumed by the pipeline stages
// and the external text-to-speech integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, episodes, and chapters
//     for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (extraction empty vs speaker resolution vs synthesis) with
//     errors.Is while keeping the underlying cause.
//
// Backend clients live in subpackages (voicevox, googletts).
package services
