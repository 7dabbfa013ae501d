package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the working directories for transcripts, segment audio,
// combined chapter audio, and logs.
type Paths struct {
	TranscriptDir string `toml:"transcript_dir"`
	SegmentDir    string `toml:"segment_dir"`
	LibraryDir    string `toml:"library_dir"`
	LogDir        string `toml:"log_dir"`
}

// Podcast identifies the show being processed and its host roster.
type Podcast struct {
	Name  string   `toml:"name"`
	Hosts []string `toml:"hosts"`
}

// Source controls how episode pages are fetched.
type Source struct {
	Translate    bool   `toml:"translate"`
	Language     string `toml:"language"`
	FetchTimeout int    `toml:"fetch_timeout"`
	UserAgent    string `toml:"user_agent"`
}

// TTS selects the synthesis backend and pacing behaviour.
type TTS struct {
	Backend           string `toml:"backend"`
	VoiceMode         string `toml:"voice_mode"`
	LongTextThreshold int    `toml:"long_text_threshold"`
	LongTextPauseMS   int    `toml:"long_text_pause_ms"`
}

// VoiceVox contains connection and voice settings for a local VOICEVOX engine.
type VoiceVox struct {
	URL          string   `toml:"url"`
	Timeout      int      `toml:"timeout"`
	HostVoice    string   `toml:"host_voice"`
	GuestVoices  []string `toml:"guest_voices"`
	DefaultVoice string   `toml:"default_voice"`
}

// Google contains settings for Google Cloud Text-to-Speech.
type Google struct {
	CredentialsFile string   `toml:"credentials_file"`
	LanguageCode    string   `toml:"language_code"`
	Encoding        string   `toml:"encoding"`
	HostVoice       string   `toml:"host_voice"`
	GuestVoices     []string `toml:"guest_voices"`
	DefaultVoice    string   `toml:"default_voice"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications configures ntfy push messages for finished and failed runs.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Config encapsulates all configuration values for recast.
//
// Configuration sections by subsystem:
//   - Paths: transcript, segment, library, and log directories
//   - Podcast: show name and host roster
//   - Source: page fetching and translation proxy
//   - TTS: backend selection, voice mode, long-text pacing
//   - VoiceVox / Google: per-backend connection and voice pools
//   - Logging: log format and level
//   - Notifications: optional ntfy topic for run outcomes
type Config struct {
	Paths    Paths    `toml:"paths"`
	Podcast  Podcast  `toml:"podcast"`
	Source   Source   `toml:"source"`
	TTS      TTS      `toml:"tts"`
	VoiceVox VoiceVox `toml:"voicevox"`
	Google   Google   `toml:"google"`
	Logging  Logging  `toml:"logging"`

	Notifications Notifications `toml:"notifications"`
}

// VoicePool is the voice set of the active backend.
type VoicePool struct {
	Host    string
	Guests  []string
	Default string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the working directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TranscriptDir, c.Paths.SegmentDir, c.Paths.LibraryDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ActiveVoices returns the voice pool configured for the selected backend.
func (c *Config) ActiveVoices() VoicePool {
	if c.TTS.Backend == BackendGoogle {
		return VoicePool{
			Host:    c.Google.HostVoice,
			Guests:  append([]string(nil), c.Google.GuestVoices...),
			Default: c.Google.DefaultVoice,
		}
	}
	return VoicePool{
		Host:    c.VoiceVox.HostVoice,
		Guests:  append([]string(nil), c.VoiceVox.GuestVoices...),
		Default: c.VoiceVox.DefaultVoice,
	}
}

// FetchTimeout returns the page fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Source.FetchTimeout) * time.Second
}

// VoiceVoxTimeout returns the VOICEVOX HTTP timeout as a duration.
func (c *Config) VoiceVoxTimeout() time.Duration {
	return time.Duration(c.VoiceVox.Timeout) * time.Second
}

// NotifyTimeout returns the ntfy request timeout as a duration.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

// LongTextPause returns the pacing delay applied before long segments.
func (c *Config) LongTextPause() time.Duration {
	return time.Duration(c.TTS.LongTextPauseMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is never overwritten.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return []byte(b.String()), nil
}
