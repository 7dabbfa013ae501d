// Package preflight provides readiness checks for the TTS backend and the
// directories a run writes to.
//
// The CLI "check" command renders every result as a table. Runs do not gate
// on these checks: an episode whose audio is already on disk completes
// without a reachable backend.
package preflight
