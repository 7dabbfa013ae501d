package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"recast/internal/fileutil"
)

// PreprocessedSuffix marks the file stem of a preprocessed transcript.
const PreprocessedSuffix = "_preprocessed"

const noName = "noname"

// Decode reads a chapter array document.
func Decode(r io.Reader) ([]Chapter, error) {
	dec := json.NewDecoder(r)
	var chapters []Chapter
	if err := dec.Decode(&chapters); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return chapters, nil
}

// Encode writes chapters as an indented JSON array with non-ASCII text kept literal.
func Encode(w io.Writer, chapters []Chapter) error {
	if chapters == nil {
		chapters = []Chapter{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chapters); err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	return nil
}

// Load reads a transcript document from path.
func Load(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	chapters, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Transcript{
		EpisodeName: EpisodeNameFromPath(path),
		Chapters:    chapters,
	}, nil
}

// Save writes the transcript document to path atomically.
func (t *Transcript) Save(path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, t.Chapters); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// RawPath and PreprocessedPath name the per-episode transcript files.
func RawPath(dir, episode string) string {
	return filepath.Join(dir, episode+".json")
}

func PreprocessedPath(dir, episode string) string {
	return filepath.Join(dir, episode+PreprocessedSuffix+".json")
}

// EpisodeNameFromURL derives the episode name from a page URL. The path is
// trimmed of slashes, a trailing "transcript" component is dropped, and
// remaining separators become dashes.
func EpisodeNameFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return noName
	}
	path := strings.Trim(u.Path, "/")
	path = strings.ReplaceAll(path, "/", "-")
	parts := strings.Split(path, "-")
	if n := len(parts); n > 0 && parts[n-1] == "transcript" {
		parts = parts[:n-1]
	}
	name := strings.Trim(strings.Join(parts, "-"), "-")
	if name == "" {
		return noName
	}
	return name
}

// EpisodeNameFromPath returns the file stem without the preprocessed suffix.
func EpisodeNameFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSuffix(stem, PreprocessedSuffix)
}
