// Package voicevox is a client for a local VOICEVOX text-to-speech engine.
//
// Synthesis is a two-request exchange. POST /audio_query turns text into a
// JSON synthesis query for a speaker id, and POST /synthesis renders that
// query to WAV. Any status other than 200 fails with a StatusError carrying a
// snippet of the response body.
package voicevox
