package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"recast/internal/assembly"
	"recast/internal/config"
	"recast/internal/transcript"
)

func TestRunEpisode(t *testing.T) {
	env := setupCLITestEnv(t, testEpisodePage)

	out, _, err := runCLI(t, []string{env.pageURL}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "guest: 2 segments synthesized")
	requireContains(t, out, "assembled")
	if got := env.synthCalls.Load(); got != 2 {
		t.Fatalf("synthesis calls = %d, want 2", got)
	}

	layout := assembly.Layout{
		SegmentRoot: env.cfg.Paths.SegmentDir,
		LibraryRoot: env.cfg.Paths.LibraryDir,
		Episode:     "guest",
		Podcast:     env.cfg.Podcast.Name,
	}
	requireFile(t, layout.CombinedPath("0", "Intro"))
	requireFile(t, transcript.PreprocessedPath(env.cfg.Paths.TranscriptDir, "guest"))

	out, _, err = runCLI(t, []string{env.pageURL}, env.configPath)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	requireContains(t, out, "0 segments synthesized")
	if got := env.synthCalls.Load(); got != 2 {
		t.Fatalf("second run called the engine, calls = %d", got)
	}
}

func TestRunEpisodeRequiresURL(t *testing.T) {
	env := setupCLITestEnv(t, testEpisodePage)
	if _, _, err := runCLI(t, nil, env.configPath); err == nil {
		t.Fatal("expected error without an episode url")
	}
}

func TestRunEpisodeExtractionEmptyIsNotAnError(t *testing.T) {
	env := setupCLITestEnv(t, "<html><body>no transcript</body></html>")

	_, stderr, err := runCLI(t, []string{env.pageURL}, env.configPath)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	requireContains(t, stderr, "nothing to do")
	matches, err := filepath.Glob(filepath.Join(env.cfg.Paths.TranscriptDir, "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no transcripts, got %v", matches)
	}
}

func TestRunEpisodeUnresolvedSpeakerFails(t *testing.T) {
	page := `<div class="entry-content"><h2 id="chapter1">A</h2>
<div class="ts-segment"><span class="ts-name"></span><span class="ts-text">who?</span></div></div>`
	env := setupCLITestEnv(t, page)

	if _, _, err := runCLI(t, []string{env.pageURL}, env.configPath); err == nil {
		t.Fatal("expected failure for leading empty speaker")
	}
	if got := env.synthCalls.Load(); got != 0 {
		t.Fatalf("engine should not be called, calls = %d", got)
	}
}

func TestVoicesCommand(t *testing.T) {
	env := setupCLITestEnv(t, testEpisodePage)

	out, _, err := runCLI(t, []string{"voices", env.pageURL}, env.configPath)
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	requireContains(t, out, "Speaker")
	requireContains(t, out, "Guest")
	requireContains(t, out, env.cfg.VoiceVox.GuestVoices[0])
	if got := env.synthCalls.Load(); got != 0 {
		t.Fatalf("voices must not synthesize, calls = %d", got)
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t, testEpisodePage)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "VOICEVOX")
	requireContains(t, out, "0.14.7")
}

func TestRunEpisodeNotifiesCompletion(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	topic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, r.Header.Get("Title")+"|"+string(body))
		mu.Unlock()
	}))
	defer topic.Close()

	env := setupCLITestEnv(t, testEpisodePage, func(c *config.Config) {
		c.Notifications.NtfyTopic = topic.URL + "/podcasts"
	})
	if _, _, err := runCLI(t, []string{env.pageURL}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, _, err := runCLI(t, []string{"test-notify"}, env.configPath); err != nil {
		t.Fatalf("test-notify: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 {
		t.Fatalf("expected two notifications, got %v", bodies)
	}
	if !strings.HasPrefix(bodies[0], "recast - Episode Complete|") || !strings.Contains(bodies[0], "guest") {
		t.Fatalf("unexpected completion notification %q", bodies[0])
	}
	if !strings.HasPrefix(bodies[1], "recast - Test|") {
		t.Fatalf("unexpected test notification %q", bodies[1])
	}
}
