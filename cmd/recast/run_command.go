package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"recast/internal/logging"
	"recast/internal/notifications"
	"recast/internal/pipeline"
	"recast/internal/services"
	"recast/internal/tts"
)

func runEpisode(cmd *cobra.Command, ctx *commandContext, pageURL string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	runCtx := cmd.Context()

	backend, closeBackend, err := tts.Open(runCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Warn("failed to close tts backend", logging.Error(err))
		}
	}()

	p, err := pipeline.New(pipeline.Options{Config: cfg, Backend: backend, Logger: logger})
	if err != nil {
		return err
	}
	notifier := notifications.NewService(cfg)
	started := time.Now()
	res, err := p.Run(runCtx, pageURL)
	if err != nil && !services.IsFatal(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "nothing to do: %v\n", err)
		return nil
	}
	if res != nil && len(res.Chapters) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderRunSummary(res))
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			notify(logger, notifier.NotifyError(context.WithoutCancel(runCtx), err, episodeOf(res, pageURL)))
		}
		return err
	}
	if res.ChaptersAssembled > 0 {
		notify(logger, notifier.NotifyEpisodeCompleted(runCtx, notifications.EpisodeSummary{
			Episode:           res.Episode,
			Podcast:           cfg.Podcast.Name,
			ChaptersAssembled: res.ChaptersAssembled,
			ChaptersSkipped:   res.ChaptersSkipped,
			Segments:          res.SegmentsSynthesized,
			Duration:          time.Since(started),
		}))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d segments synthesized, %d already on disk, %d chapters assembled, %d skipped\n",
		res.Episode, res.SegmentsSynthesized, res.SegmentsSkipped, res.ChaptersAssembled, res.ChaptersSkipped)
	return nil
}

func renderRunSummary(res *pipeline.Result) string {
	rows := make([][]string, 0, len(res.Chapters))
	for _, ch := range res.Chapters {
		status := "assembled"
		if ch.SkipReason != "" {
			status = "skipped: " + ch.SkipReason
		}
		rows = append(rows, []string{
			ch.No.String(),
			ch.Title,
			strconv.Itoa(ch.Synthesized),
			strconv.Itoa(ch.Skipped),
			status,
		})
	}
	return renderTable(res.Episode, []string{"Chapter", "Title", "Synthesized", "On disk", "Status"}, rows, 0, 2, 3)
}

func notify(logger *slog.Logger, err error) {
	if err != nil {
		logger.Warn("notification failed", logging.Error(err), logging.String(logging.FieldEventType, "notify_failed"))
	}
}

func episodeOf(res *pipeline.Result, pageURL string) string {
	if res != nil && res.Episode != "" {
		return res.Episode
	}
	return pageURL
}
