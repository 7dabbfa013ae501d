package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"recast/internal/assembly"
	"recast/internal/config"
	"recast/internal/fileutil"
	"recast/internal/logging"
	"recast/internal/preprocess"
	"recast/internal/scrape"
	"recast/internal/services"
	"recast/internal/synth"
	"recast/internal/transcript"
	"recast/internal/tts"
	"recast/internal/voices"
)

// Stage names used in logs and error messages.
const (
	StageScrape     = "scrape"
	StagePreprocess = "preprocess"
	StageVoices     = "voices"
	StageSynthesize = "synthesize"
	StageAssemble   = "assemble"
)

// Options wires a Pipeline.
type Options struct {
	Config  *config.Config
	Fetcher scrape.Fetcher
	Backend tts.Backend
	Logger  *slog.Logger
	// Sleep overrides the synthesizer's pacing sleep.
	Sleep synth.Sleeper
}

// Pipeline drives one episode from page URL to combined chapter audio.
// Every stage is skipped when its output already exists on disk.
type Pipeline struct {
	cfg     *config.Config
	fetcher scrape.Fetcher
	backend tts.Backend
	logger  *slog.Logger
	sleep   synth.Sleeper
}

// New validates options and constructs a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline requires config")
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = scrape.NewHTTPFetcher(opts.Config.FetchTimeout(), opts.Config.Source.UserAgent, opts.Config.Source.Language)
	}
	return &Pipeline{
		cfg:     opts.Config,
		fetcher: fetcher,
		backend: opts.Backend,
		logger:  logging.NewComponentLogger(opts.Logger, "pipeline"),
		sleep:   opts.Sleep,
	}, nil
}

// Plan holds the output of the stages that precede synthesis.
type Plan struct {
	RunID              string
	Episode            string
	// RawLoaded reports that the page was not fetched on this run.
	RawLoaded          bool
	PreprocessedLoaded bool
	Stats              preprocess.Stats
	Transcript         *transcript.Transcript
	Selector           voices.Selector
	Voices             []voices.Entry
}

// Result summarizes a full run.
type Result struct {
	Plan
	Chapters            []ChapterResult
	SegmentsSynthesized int
	SegmentsSkipped     int
	ChaptersAssembled   int
	ChaptersSkipped     int
}

// ChapterResult is the outcome for one chapter.
type ChapterResult struct {
	No          transcript.ChapterNo
	Title       string
	Synthesized int
	Skipped     int
	Combined    string
	SkipReason  string
}

// Plan runs the scrape, preprocess, and voice assignment stages only.
func (p *Pipeline) Plan(ctx context.Context, pageURL string) (*Plan, error) {
	ctx, unlock, err := p.begin(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return p.plan(ctx, pageURL)
}

// Run executes every stage for the episode at pageURL.
func (p *Pipeline) Run(ctx context.Context, pageURL string) (*Result, error) {
	if p.backend == nil {
		return nil, services.Wrap(services.ErrConfiguration, StageSynthesize, "run", "no tts backend configured", nil)
	}
	ctx, unlock, err := p.begin(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer unlock()

	plan, err := p.plan(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	result := &Result{Plan: *plan}
	if err := p.synthesizeAll(ctx, result); err != nil {
		return result, err
	}

	logging.WithContext(ctx, p.logger).InfoContext(ctx, "episode complete",
		logging.Int("segments_synthesized", result.SegmentsSynthesized),
		logging.Int("segments_skipped", result.SegmentsSkipped),
		logging.Int("chapters_assembled", result.ChaptersAssembled),
		logging.Int("chapters_skipped", result.ChaptersSkipped),
	)
	return result, nil
}

// begin stamps the run context and takes the per-episode lock.
func (p *Pipeline) begin(ctx context.Context, pageURL string) (context.Context, func(), error) {
	episode := transcript.EpisodeNameFromURL(pageURL)
	ctx = services.WithRunID(ctx, uuid.NewString())
	ctx = services.WithEpisode(ctx, episode)

	dir := p.cfg.Paths.TranscriptDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ctx, nil, services.Wrap(services.ErrFileIO, "", "create transcript dir", dir, err)
	}
	lockPath := filepath.Join(dir, episode+".lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return ctx, nil, services.Wrap(services.ErrFileIO, "", "acquire lock", lockPath, err)
	}
	if !ok {
		return ctx, nil, services.Wrap(services.ErrEpisodeLocked, "", "acquire lock",
			fmt.Sprintf("another run is processing %s (%s)", episode, lockPath), nil)
	}
	unlock := func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release episode lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}
	return ctx, unlock, nil
}

func (p *Pipeline) plan(ctx context.Context, pageURL string) (*Plan, error) {
	runID, _ := services.RunIDFromContext(ctx)
	episode, _ := services.EpisodeFromContext(ctx)
	plan := &Plan{RunID: runID, Episode: episode}

	pre, err := p.loadPreprocessed(services.WithStage(ctx, StagePreprocess), episode)
	if err != nil {
		return nil, err
	}
	if pre != nil {
		plan.RawLoaded = true
		plan.PreprocessedLoaded = true
		plan.Stats = preprocess.Stats{Segments: pre.SegmentCount()}
	} else {
		raw, loaded, err := p.loadOrScrape(services.WithStage(ctx, StageScrape), pageURL, episode)
		if err != nil {
			return nil, err
		}
		plan.RawLoaded = loaded
		if pre, plan.Stats, err = p.preprocess(services.WithStage(ctx, StagePreprocess), raw, episode); err != nil {
			return nil, err
		}
	}
	pre.EpisodeName = episode
	pre.PodcastName = p.cfg.Podcast.Name
	plan.Transcript = pre

	sel, entries, err := p.selectVoices(services.WithStage(ctx, StageVoices), pre)
	if err != nil {
		return nil, err
	}
	plan.Selector = sel
	plan.Voices = entries
	return plan, nil
}

func (p *Pipeline) loadOrScrape(ctx context.Context, pageURL, episode string) (*transcript.Transcript, bool, error) {
	logger := logging.WithContext(ctx, p.logger)
	path := transcript.RawPath(p.cfg.Paths.TranscriptDir, episode)

	exists, err := fileutil.Exists(path)
	if err != nil {
		return nil, false, services.Wrap(services.ErrFileIO, StageScrape, "stat raw transcript", path, err)
	}
	if exists {
		t, err := transcript.Load(path)
		if err != nil {
			return nil, false, services.Wrap(services.ErrValidation, StageScrape, "load raw transcript", path, err)
		}
		if len(t.Chapters) == 0 {
			return nil, false, services.Wrap(services.ErrExtractionEmpty, StageScrape, "load raw transcript",
				path+" holds no chapters; delete it to fetch again", nil)
		}
		logger.InfoContext(ctx, "raw transcript found, skipping fetch", logging.String("path", path))
		return t, true, nil
	}

	target := pageURL
	if p.cfg.Source.Translate {
		target = scrape.TranslateURL(pageURL, p.cfg.Source.Language)
	}
	logger.InfoContext(ctx, "fetching episode page", logging.String("url", target))
	page, err := p.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, false, services.Wrap(services.ErrFileIO, StageScrape, "fetch", pageURL, err)
	}
	chapters, err := scrape.Extract(page)
	if err != nil {
		return nil, false, services.Wrap(services.ErrValidation, StageScrape, "extract", pageURL, err)
	}
	if len(chapters) == 0 {
		return nil, false, services.Wrap(services.ErrExtractionEmpty, StageScrape, "extract",
			"no transcript content (div.entry-content with chapter headings) found at "+pageURL, nil)
	}

	t := &transcript.Transcript{EpisodeName: episode, Chapters: chapters}
	if err := t.Save(path); err != nil {
		return nil, false, services.Wrap(services.ErrFileIO, StageScrape, "save raw transcript", path, err)
	}
	logger.InfoContext(ctx, "raw transcript saved",
		logging.String("path", path),
		logging.Int("chapters", len(chapters)),
		logging.Int("segments", t.SegmentCount()),
	)
	return t, false, nil
}

// loadPreprocessed returns nil when the preprocessed transcript is not on
// disk yet.
func (p *Pipeline) loadPreprocessed(ctx context.Context, episode string) (*transcript.Transcript, error) {
	path := transcript.PreprocessedPath(p.cfg.Paths.TranscriptDir, episode)
	exists, err := fileutil.Exists(path)
	if err != nil {
		return nil, services.Wrap(services.ErrFileIO, StagePreprocess, "stat preprocessed transcript", path, err)
	}
	if !exists {
		return nil, nil
	}
	t, err := transcript.Load(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, StagePreprocess, "load preprocessed transcript", path, err)
	}
	if len(t.Chapters) == 0 {
		return nil, services.Wrap(services.ErrExtractionEmpty, StagePreprocess, "load preprocessed transcript",
			path+" holds no chapters; delete it to rebuild from the raw transcript", nil)
	}
	if err := t.ValidatePreprocessed(); err != nil {
		return nil, services.Wrap(services.ErrValidation, StagePreprocess, "validate preprocessed transcript", path, err)
	}
	logging.WithContext(ctx, p.logger).InfoContext(ctx, "preprocessed transcript found, skipping fetch and preprocessing",
		logging.String("path", path))
	return t, nil
}

func (p *Pipeline) preprocess(ctx context.Context, raw *transcript.Transcript, episode string) (*transcript.Transcript, preprocess.Stats, error) {
	path := transcript.PreprocessedPath(p.cfg.Paths.TranscriptDir, episode)
	t, stats, err := preprocess.Preprocessor{Hosts: p.cfg.Podcast.Hosts}.Run(raw)
	if err != nil {
		return nil, preprocess.Stats{}, err
	}
	if err := t.Save(path); err != nil {
		return nil, preprocess.Stats{}, services.Wrap(services.ErrFileIO, StagePreprocess, "save preprocessed transcript", path, err)
	}
	logging.WithContext(ctx, p.logger).InfoContext(ctx, "preprocessed transcript saved",
		logging.String("path", path),
		logging.Int("segments", stats.Segments),
		logging.Int("filled_speakers", stats.Filled),
		logging.Int("host_segments", stats.Host),
		logging.Int("guest_segments", stats.Guest),
	)
	return t, stats, nil
}

func (p *Pipeline) selectVoices(ctx context.Context, t *transcript.Transcript) (voices.Selector, []voices.Entry, error) {
	active := p.cfg.ActiveVoices()
	pool := voices.Pool{Host: active.Host, Guests: active.Guests, Default: active.Default}

	if p.cfg.TTS.VoiceMode == config.VoiceModeRole {
		sel := voices.RoleSplitFromPool(pool)
		return sel, voices.Summarize(t, sel), nil
	}
	m, err := voices.Assign(ctx, t, p.cfg.Podcast.Hosts, pool, p.logger)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Entries(), nil
}

func (p *Pipeline) synthesizeAll(ctx context.Context, result *Result) error {
	layout := assembly.Layout{
		SegmentRoot: p.cfg.Paths.SegmentDir,
		LibraryRoot: p.cfg.Paths.LibraryDir,
		Episode:     result.Episode,
		Podcast:     p.cfg.Podcast.Name,
	}
	s := synth.New(p.backend, result.Selector, p.logger)
	s.LongTextThreshold = p.cfg.TTS.LongTextThreshold
	s.LongTextPause = p.cfg.LongTextPause()
	if p.sleep != nil {
		s.Sleep = p.sleep
	}
	assembler := assembly.NewAssembler(layout, p.logger)

	for _, ch := range result.Transcript.Chapters {
		chCtx := services.WithChapter(ctx, ch.No.String())
		cr, err := p.processChapter(chCtx, s, assembler, layout, ch)
		result.Chapters = append(result.Chapters, cr)
		result.SegmentsSynthesized += cr.Synthesized
		result.SegmentsSkipped += cr.Skipped
		if err != nil {
			return err
		}
		if cr.SkipReason != "" {
			result.ChaptersSkipped++
		} else {
			result.ChaptersAssembled++
		}
	}
	return nil
}

func (p *Pipeline) processChapter(ctx context.Context, s *synth.Synthesizer, assembler *assembly.Assembler, layout assembly.Layout, ch transcript.Chapter) (ChapterResult, error) {
	cr := ChapterResult{No: ch.No, Title: ch.Title, Combined: layout.CombinedPath(ch.No, ch.Title)}
	logger := logging.WithContext(ctx, p.logger)

	exists, err := fileutil.Exists(cr.Combined)
	if err != nil {
		return cr, services.Wrap(services.ErrFileIO, StageAssemble, "stat combined", cr.Combined, err)
	}
	if exists {
		logger.InfoContext(ctx, "combined chapter exists, skipping chapter", logging.String("path", cr.Combined))
		cr.SkipReason = assembly.SkipExists
		return cr, nil
	}

	synthCtx := services.WithStage(ctx, StageSynthesize)
	stats, err := s.SynthesizeChapter(synthCtx, ch, layout)
	cr.Synthesized, cr.Skipped = stats.Synthesized, stats.Skipped
	if err != nil {
		return cr, err
	}

	if err := layout.VerifyComplete(ch); err != nil {
		return cr, err
	}
	res, err := assembler.Concatenate(services.WithStage(ctx, StageAssemble), ch)
	if err != nil {
		return cr, err
	}
	cr.SkipReason = res.Skipped
	return cr, nil
}
