package tts

import (
	"context"
	"log/slog"

	"recast/internal/config"
	"recast/internal/logging"
	"recast/internal/services"
	"recast/internal/services/googletts"
	"recast/internal/services/voicevox"
)

// Backend turns text into audio bytes using a backend-specific voice id.
type Backend interface {
	Name() string
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Disabled stands in for a backend that failed to initialize. Every call
// fails, so runs only succeed when no segment needs synthesis.
type Disabled struct {
	Backend string
	Cause   error
}

func (d Disabled) Name() string { return d.Backend }

func (d Disabled) Synthesize(context.Context, string, string) ([]byte, error) {
	return nil, services.Wrap(services.ErrBackendUnavailable, "synthesize", d.Backend, "backend disabled", d.Cause)
}

// Open builds the backend selected in cfg. The returned close function is
// never nil. Google initialization failures do not fail Open: the backend is
// replaced by Disabled and a warning is logged.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, func() error, error) {
	noop := func() error { return nil }
	logger = logging.NewComponentLogger(logger, "tts")

	switch cfg.TTS.Backend {
	case config.BackendGoogle:
		client, err := googletts.New(ctx, googletts.Config{
			CredentialsFile: cfg.Google.CredentialsFile,
			LanguageCode:    cfg.Google.LanguageCode,
			Encoding:        cfg.Google.Encoding,
		})
		if err != nil {
			logging.WarnWithContext(ctx, logger, "google tts unavailable, synthesis disabled for this run",
				"backend_disabled",
				logging.Error(err),
				logging.String(logging.FieldImpact, "segments that are not already on disk will fail"),
			)
			return Disabled{Backend: config.BackendGoogle, Cause: err}, noop, nil
		}
		return client, client.Close, nil
	case config.BackendVoiceVox:
		return voicevox.New(cfg.VoiceVox.URL, voicevox.WithTimeout(cfg.VoiceVoxTimeout())), noop, nil
	default:
		return nil, noop, services.Wrap(services.ErrConfiguration, "synthesize", "open backend", "unknown backend "+cfg.TTS.Backend, nil)
	}
}
