// Package tts defines the text-to-speech backend contract and selects the
// configured implementation.
package tts
