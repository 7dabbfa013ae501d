package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePodcast(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateVoices(); err != nil {
		return err
	}
	if topic := c.Notifications.NtfyTopic; topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) topic URL, got %q", topic)
	}
	return nil
}

func (c *Config) validatePaths() error {
	for key, value := range map[string]string{
		"paths.transcript_dir": c.Paths.TranscriptDir,
		"paths.segment_dir":    c.Paths.SegmentDir,
		"paths.library_dir":    c.Paths.LibraryDir,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}

func (c *Config) validatePodcast() error {
	if len(c.Podcast.Hosts) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("podcast.hosts must list at least one host name. Edit %s (create with 'recast config init')", defaultPath)
	}
	if strings.ContainsAny(c.Podcast.Name, `/\`) {
		return errors.New("podcast.name must not contain path separators")
	}
	return nil
}

func (c *Config) validateTTS() error {
	switch c.TTS.Backend {
	case BackendVoiceVox, BackendGoogle:
	default:
		return fmt.Errorf("tts.backend must be %q or %q, got %q", BackendVoiceVox, BackendGoogle, c.TTS.Backend)
	}
	switch c.TTS.VoiceMode {
	case VoiceModeRanked, VoiceModeRole:
	default:
		return fmt.Errorf("tts.voice_mode must be %q or %q, got %q", VoiceModeRanked, VoiceModeRole, c.TTS.VoiceMode)
	}
	return nil
}

func (c *Config) validateVoices() error {
	section := c.TTS.Backend
	pool := c.ActiveVoices()
	if pool.Host == "" {
		return fmt.Errorf("%s.host_voice must be set", section)
	}
	if len(pool.Guests) == 0 {
		return fmt.Errorf("%s.guest_voices must include at least one voice", section)
	}
	if c.TTS.Backend == BackendVoiceVox {
		if !strings.HasPrefix(c.VoiceVox.URL, "http://") && !strings.HasPrefix(c.VoiceVox.URL, "https://") {
			return fmt.Errorf("voicevox.url must be an http(s) URL, got %q", c.VoiceVox.URL)
		}
	}
	return nil
}
