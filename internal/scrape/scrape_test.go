package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recast/internal/transcript"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "episode.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

func TestExtractStructure(t *testing.T) {
	chapters, err := Extract(loadFixture(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d: %+v", len(chapters), chapters)
	}

	first := chapters[0]
	if first.No != transcript.NewChapterNo(0) || first.Title != "イントロダクション" {
		t.Fatalf("unexpected first chapter %+v", first)
	}
	if len(first.Segments) != 2 {
		t.Fatalf("expected 2 segments in first chapter, got %d", len(first.Segments))
	}
	want := transcript.Segment{Speaker: "レックス・フリードマン", Text: "以下はゲストとの会話です。", Timestamp: "0"}
	if first.Segments[0] != want {
		t.Fatalf("segment 0 = %+v, want %+v", first.Segments[0], want)
	}
	if first.Segments[1].Speaker != "" || first.Segments[1].Timestamp != "95" {
		t.Fatalf("segment 1 = %+v", first.Segments[1])
	}

	second := chapters[1]
	if second.No != transcript.NewChapterNo(1) || second.Title != "AI/ML と未来" {
		t.Fatalf("unexpected second chapter %+v", second)
	}
	if len(second.Segments) != 1 || second.Segments[0].Timestamp != "" {
		t.Fatalf("unexpected second chapter segments %+v", second.Segments)
	}
}

func TestExtractWithoutContainer(t *testing.T) {
	chapters, err := Extract("<html><body><p>nothing</p></body></html>")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(chapters) != 0 {
		t.Fatalf("expected no chapters, got %+v", chapters)
	}
}

func TestTimestampFromHref(t *testing.T) {
	tests := map[string]string{
		"https://youtu.be/x?t=12":             "12",
		"https://youtu.be/x?si=a&t=7&b=1":     "7",
		"https://youtu.be/x%3Ft%3D42":         "42",
		"https://youtu.be/x":                  "",
		"https://youtu.be/x?start=1&t=1h2m3s": "1h2m3s",
	}
	for href, want := range tests {
		if got := timestampFromHref(href); got != want {
			t.Errorf("timestampFromHref(%q) = %q, want %q", href, got, want)
		}
	}
}

func TestTranslateURL(t *testing.T) {
	got := TranslateURL("https://lexfridman.com/guest-transcript/", "ja")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "translate.google.com" || u.Path != "/translate" {
		t.Fatalf("unexpected url %q", got)
	}
	q := u.Query()
	if q.Get("sl") != "auto" || q.Get("tl") != "ja" || q.Get("hl") != "ja" || q.Get("u") != "https://lexfridman.com/guest-transcript/" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestHTTPFetcherSendsBrowserHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "Mozilla/5.0") {
			t.Errorf("unexpected user agent %q", ua)
		}
		if lang := r.Header.Get("Accept-Language"); !strings.HasPrefix(lang, "ja,") {
			t.Errorf("unexpected accept-language %q", lang)
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	body, err := NewHTTPFetcher(time.Second, "", "ja").Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestHTTPFetcherRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := NewHTTPFetcher(time.Second, "", "").Fetch(context.Background(), server.URL); err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestHTTPFetcherReadsFileURL(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("testdata", "episode.html"))
	if err != nil {
		t.Fatal(err)
	}
	body, err := NewHTTPFetcher(0, "", "").Fetch(context.Background(), "file://"+path)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(body, "entry-content") {
		t.Fatal("expected fixture content")
	}
}
