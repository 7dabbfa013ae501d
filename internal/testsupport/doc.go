// Package testsupport provides fixtures shared by package tests: temp-dir
// backed configs and WAV files.
package testsupport
