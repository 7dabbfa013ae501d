// Package config loads, normalizes, and validates recast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VOICEVOX_URL and GOOGLE_APPLICATION_CREDENTIALS. The Config type centralizes
// every knob the pipeline and CLI need: working directories, the host roster,
// the TTS backend and its voice pool, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical backend names, and clear validation errors.
package config
