package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recast/internal/config"
	"recast/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckVoiceVox_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`"0.14.7"`))
	}))
	defer srv.Close()

	result := CheckVoiceVox(context.Background(), srv.URL+"/")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "0.14.7") {
		t.Fatalf("expected version in detail, got %q", result.Detail)
	}
}

func TestCheckVoiceVox_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if result := CheckVoiceVox(context.Background(), srv.URL); result.Passed {
		t.Fatal("expected failure for server error")
	}
}

func TestCheckVoiceVox_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	result := CheckVoiceVox(context.Background(), url)
	if result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestCheckVoiceVox_MissingURL(t *testing.T) {
	if result := CheckVoiceVox(context.Background(), " "); result.Passed {
		t.Fatal("expected failure for missing URL")
	}
}

func TestCheckGoogleCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	dir := t.TempDir()
	file := filepath.Join(dir, "sa.json")
	testsupport.WriteFile(t, file, []byte(`{}`))

	tests := []struct {
		name   string
		path   string
		passed bool
	}{
		{name: "file", path: file, passed: true},
		{name: "missing file", path: filepath.Join(dir, "nope.json"), passed: false},
		{name: "directory", path: dir, passed: false},
		{name: "inline json", path: `{"type":"service_account"}`, passed: true},
		{name: "default credentials", path: "", passed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckGoogleCredentials(tt.path); got.Passed != tt.passed {
				t.Fatalf("passed = %v, detail %q", got.Passed, got.Detail)
			}
		})
	}
}

func TestRunAllVoiceVox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`"1.0.0"`))
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithVoiceVoxURL(srv.URL))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %+v", results)
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}
}

func TestRunAllReportsMissingDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.TTS.Backend = config.BackendGoogle
	cfg.Google.CredentialsFile = ""
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")

	results := RunAll(context.Background(), cfg)
	if !Failed(results) {
		t.Fatalf("expected failures for missing directories, got %+v", results)
	}
	last := results[len(results)-1]
	if last.Name != "Google credentials" || !last.Passed {
		t.Fatalf("unexpected credentials result %+v", last)
	}
}
