package synth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"recast/internal/assembly"
	"recast/internal/fileutil"
	"recast/internal/logging"
	"recast/internal/services"
	"recast/internal/transcript"
	"recast/internal/tts"
	"recast/internal/voices"
)

const (
	stageName = "synthesize"

	// DefaultLongTextThreshold is the segment length, in characters, at which
	// synthesis is preceded by a pause.
	DefaultLongTextThreshold = 562
	// DefaultLongTextPause is the pause applied before long segments.
	DefaultLongTextPause = time.Second

	excerptLength = 100
)

// Outcome reports what happened to one segment.
type Outcome int

const (
	OutcomeSynthesized Outcome = iota
	OutcomeSkipped
)

func (o Outcome) String() string {
	if o == OutcomeSkipped {
		return "skipped"
	}
	return "synthesized"
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Synthesizer produces one audio file per segment.
type Synthesizer struct {
	Backend           tts.Backend
	Selector          voices.Selector
	LongTextThreshold int
	LongTextPause     time.Duration
	Sleep             Sleeper
	Logger            *slog.Logger
}

// ChapterStats counts segment outcomes for one chapter.
type ChapterStats struct {
	Synthesized int
	Skipped     int
}

// New constructs a synthesizer with default pacing.
func New(backend tts.Backend, selector voices.Selector, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		Backend:           backend,
		Selector:          selector,
		LongTextThreshold: DefaultLongTextThreshold,
		LongTextPause:     DefaultLongTextPause,
		Sleep:             sleepContext,
		Logger:            logging.NewComponentLogger(logger, "synth"),
	}
}

// SynthesizeSegment writes the segment's audio to path unless path already
// exists. Backend failures are fatal and are not retried.
func (s *Synthesizer) SynthesizeSegment(ctx context.Context, seg transcript.Segment, path string) (Outcome, error) {
	logger := logging.WithContext(ctx, s.logger())

	exists, err := fileutil.Exists(path)
	if err != nil {
		return 0, services.Wrap(services.ErrFileIO, stageName, "stat segment", path, err)
	}
	if exists {
		logger.InfoContext(ctx, "segment audio exists, skipping", logging.String("path", path))
		return OutcomeSkipped, nil
	}

	voice := s.Selector.VoiceFor(seg)
	if s.LongTextThreshold > 0 && s.LongTextPause > 0 && utf8.RuneCountInString(seg.Text) >= s.LongTextThreshold {
		logger.DebugContext(ctx, "long segment, pausing before synthesis",
			logging.Int("chars", utf8.RuneCountInString(seg.Text)),
			logging.Duration("pause", s.LongTextPause),
		)
		if err := s.sleep(ctx, s.LongTextPause); err != nil {
			return 0, err
		}
	}

	audio, err := s.Backend.Synthesize(ctx, seg.Text, voice)
	if err == nil && len(audio) == 0 {
		err = fmt.Errorf("%s returned empty audio", s.Backend.Name())
	}
	if err != nil {
		return 0, services.Wrap(services.ErrSynthesisFailed, stageName, s.Backend.Name(),
			fmt.Sprintf("speaker %q voice %q: %q", seg.Speaker, voice, services.Excerpt(seg.Text, excerptLength)), err)
	}

	if err := fileutil.WriteFileAtomic(path, audio, 0o644); err != nil {
		return 0, services.Wrap(services.ErrFileIO, stageName, "write segment", path, err)
	}
	logger.InfoContext(ctx, "segment audio written",
		logging.String("path", path),
		logging.String("speaker", seg.Speaker),
		logging.String("voice", voice),
	)
	return OutcomeSynthesized, nil
}

// SynthesizeChapter processes the chapter's segments in order and stops at
// the first failure.
func (s *Synthesizer) SynthesizeChapter(ctx context.Context, ch transcript.Chapter, layout assembly.Layout) (ChapterStats, error) {
	var stats ChapterStats
	dir := layout.ChapterDir(ch.No)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, services.Wrap(services.ErrFileIO, stageName, "create chapter dir", dir, err)
	}
	for idx, seg := range ch.Segments {
		outcome, err := s.SynthesizeSegment(ctx, seg, layout.SegmentPath(ch.No, idx))
		if err != nil {
			return stats, fmt.Errorf("chapter %s segment %d: %w", ch.No, idx, err)
		}
		if outcome == OutcomeSkipped {
			stats.Skipped++
		} else {
			stats.Synthesized++
		}
	}
	return stats, nil
}

func (s *Synthesizer) sleep(ctx context.Context, d time.Duration) error {
	if s.Sleep == nil {
		return sleepContext(ctx, d)
	}
	return s.Sleep(ctx, d)
}

func (s *Synthesizer) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
