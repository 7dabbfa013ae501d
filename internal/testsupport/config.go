package testsupport

import (
	"path/filepath"
	"testing"

	"recast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TranscriptDir = filepath.Join(base, "transcripts")
	cfgVal.Paths.SegmentDir = filepath.Join(base, "segments")
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.LogDir = ""
	cfgVal.Podcast.Name = "test-podcast"
	cfgVal.Podcast.Hosts = []string{"Host"}
	cfgVal.Source.Translate = false
	cfgVal.TTS.LongTextPauseMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHosts replaces the host roster.
func WithHosts(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Podcast.Hosts = names
	}
}

// WithVoiceVoxURL points the VOICEVOX backend at a test server.
func WithVoiceVoxURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.Backend = config.BackendVoiceVox
		b.cfg.VoiceVox.URL = url
	}
}

// WithVoiceMode selects the voice selector.
func WithVoiceMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.VoiceMode = mode
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.TranscriptDir)
}
