package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePodcast()
	c.normalizeSource()
	c.normalizeTTS()
	c.normalizeVoiceVox()
	if err := c.normalizeGoogle(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.TranscriptDir, err = expandPath(c.Paths.TranscriptDir); err != nil {
		return fmt.Errorf("paths.transcript_dir: %w", err)
	}
	if c.Paths.SegmentDir, err = expandPath(c.Paths.SegmentDir); err != nil {
		return fmt.Errorf("paths.segment_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePodcast() {
	c.Podcast.Name = strings.TrimSpace(c.Podcast.Name)
	if c.Podcast.Name == "" {
		c.Podcast.Name = defaultPodcastName
	}
	c.Podcast.Hosts = trimList(c.Podcast.Hosts)
}

func (c *Config) normalizeSource() {
	c.Source.Language = strings.TrimSpace(c.Source.Language)
	if c.Source.Language == "" {
		c.Source.Language = defaultLanguage
	}
	if c.Source.FetchTimeout <= 0 {
		c.Source.FetchTimeout = defaultFetchTimeout
	}
	c.Source.UserAgent = strings.TrimSpace(c.Source.UserAgent)
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeTTS() {
	c.TTS.Backend = strings.ToLower(strings.TrimSpace(c.TTS.Backend))
	if c.TTS.Backend == "" {
		c.TTS.Backend = BackendVoiceVox
	}
	c.TTS.VoiceMode = strings.ToLower(strings.TrimSpace(c.TTS.VoiceMode))
	if c.TTS.VoiceMode == "" {
		c.TTS.VoiceMode = VoiceModeRanked
	}
	if c.TTS.LongTextThreshold <= 0 {
		c.TTS.LongTextThreshold = defaultLongTextThreshold
	}
	if c.TTS.LongTextPauseMS < 0 {
		c.TTS.LongTextPauseMS = 0
	}
}

func (c *Config) normalizeVoiceVox() {
	if value, ok := os.LookupEnv("VOICEVOX_URL"); ok && strings.TrimSpace(value) != "" {
		c.VoiceVox.URL = value
	}
	c.VoiceVox.URL = strings.TrimSpace(c.VoiceVox.URL)
	if c.VoiceVox.URL == "" {
		c.VoiceVox.URL = defaultVoiceVoxURL
	}
	c.VoiceVox.URL = strings.TrimRight(c.VoiceVox.URL, "/")
	if c.VoiceVox.Timeout <= 0 {
		c.VoiceVox.Timeout = defaultVoiceVoxTimeout
	}
	c.VoiceVox.HostVoice = strings.TrimSpace(c.VoiceVox.HostVoice)
	c.VoiceVox.GuestVoices = trimList(c.VoiceVox.GuestVoices)
	c.VoiceVox.DefaultVoice = strings.TrimSpace(c.VoiceVox.DefaultVoice)
	if c.VoiceVox.DefaultVoice == "" {
		c.VoiceVox.DefaultVoice = c.VoiceVox.HostVoice
	}
}

func (c *Config) normalizeGoogle() error {
	c.Google.CredentialsFile = strings.TrimSpace(c.Google.CredentialsFile)
	if c.Google.CredentialsFile == "" {
		if value, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS"); ok {
			c.Google.CredentialsFile = strings.TrimSpace(value)
		}
	}
	if c.Google.CredentialsFile != "" {
		var err error
		if c.Google.CredentialsFile, err = expandPath(c.Google.CredentialsFile); err != nil {
			return fmt.Errorf("google.credentials_file: %w", err)
		}
	}
	c.Google.LanguageCode = strings.TrimSpace(c.Google.LanguageCode)
	if c.Google.LanguageCode == "" {
		c.Google.LanguageCode = defaultGoogleLanguage
	}
	c.Google.Encoding = strings.ToUpper(strings.TrimSpace(c.Google.Encoding))
	if c.Google.Encoding == "" {
		c.Google.Encoding = defaultGoogleEncoding
	}
	c.Google.HostVoice = strings.TrimSpace(c.Google.HostVoice)
	c.Google.GuestVoices = trimList(c.Google.GuestVoices)
	c.Google.DefaultVoice = strings.TrimSpace(c.Google.DefaultVoice)
	if c.Google.DefaultVoice == "" {
		c.Google.DefaultVoice = c.Google.HostVoice
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// trimList drops blank entries and duplicates while keeping order.
func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		v := strings.TrimSpace(value)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
