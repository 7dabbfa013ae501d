package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"recast/internal/config"
)

const userAgent = "recast/0.1"

// Service defines the notifications a run can publish.
type Service interface {
	NotifyEpisodeCompleted(ctx context.Context, summary EpisodeSummary) error
	NotifyError(ctx context.Context, err error, episode string) error
	TestNotification(ctx context.Context) error
}

// EpisodeSummary is the payload for a finished run.
type EpisodeSummary struct {
	Episode           string
	Podcast           string
	ChaptersAssembled int
	ChaptersSkipped   int
	Segments          int
	Duration          time.Duration
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := cfg.NotifyTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyEpisodeCompleted(ctx context.Context, summary EpisodeSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🎧 Ready to listen: %s", strings.TrimSpace(summary.Episode))
	if summary.Podcast != "" {
		fmt.Fprintf(&b, " (%s)", summary.Podcast)
	}
	fmt.Fprintf(&b, "\n%d chapters assembled, %d already done, %d segments synthesized",
		summary.ChaptersAssembled, summary.ChaptersSkipped, summary.Segments)
	if d := summary.Duration.Round(time.Second); d > 0 {
		fmt.Fprintf(&b, " in %s", d)
	}
	return n.send(ctx, payload{
		title:   "recast - Episode Complete",
		message: b.String(),
		tags:    []string{"recast", "episode", "completed"},
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, episode string) error {
	var b strings.Builder
	b.WriteString("❌ Error")
	if episode = strings.TrimSpace(episode); episode != "" {
		b.WriteString(" with ")
		b.WriteString(episode)
	}
	b.WriteString(": ")
	if err != nil {
		b.WriteString(strings.TrimSpace(err.Error()))
	} else {
		b.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "recast - Error",
		message:  b.String(),
		tags:     []string{"recast", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "recast - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"recast", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyEpisodeCompleted(context.Context, EpisodeSummary) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error             { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
