package preflight

import (
	"context"

	"recast/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to the configured backend.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Transcript directory", cfg.Paths.TranscriptDir),
		CheckDirectoryAccess("Segment directory", cfg.Paths.SegmentDir),
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
	}

	switch cfg.TTS.Backend {
	case config.BackendVoiceVox:
		results = append(results, CheckVoiceVox(ctx, cfg.VoiceVox.URL))
	case config.BackendGoogle:
		results = append(results, CheckGoogleCredentials(cfg.Google.CredentialsFile))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
