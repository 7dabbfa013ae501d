package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"recast/internal/config"
	"recast/internal/testsupport"
)

const testEpisodePage = `<html><body><div class="entry-content">
<h2 id="chapter1_intro">Intro</h2>
<div class="ts-segment"><span class="ts-name">Host</span><span class="ts-text">hello</span></div>
<div class="ts-segment"><span class="ts-name">Guest</span><span class="ts-text">hi there</span></div>
</div></body></html>`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	pageURL    string
	synthCalls *atomic.Int32
}

func setupCLITestEnv(t *testing.T, page string, mutate ...func(*config.Config)) *cliTestEnv {
	t.Helper()

	var calls atomic.Int32
	wav := testsupport.WAVBytes(t, []int{7})
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/version":
			_, _ = w.Write([]byte(`"0.14.7"`))
		case "/audio_query":
			_, _ = w.Write([]byte(`{"speedScale":1}`))
		case "/synthesis":
			calls.Add(1)
			_, _ = w.Write(wav)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(engine.Close)

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(site.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("VOICEVOX_URL", "")
	cfg := testsupport.NewConfig(t, testsupport.WithVoiceVoxURL(engine.URL))
	for _, fn := range mutate {
		fn(cfg)
	}
	configPath := filepath.Join(testsupport.BaseDir(cfg), "recast.toml")
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	testsupport.WriteFile(t, configPath, data)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		pageURL:    site.URL + "/guest-transcript",
		synthCalls: &calls,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
}
