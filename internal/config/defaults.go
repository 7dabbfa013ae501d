package config

const (
	defaultConfigPath  = "~/.config/recast/config.toml"
	projectConfigName  = "recast.toml"
	defaultTranscripts = "~/.local/share/recast/transcripts"
	defaultSegments    = "~/.local/share/recast/segments"
	defaultLibraryDir  = "~/podcasts"
	defaultLogDir      = "~/.local/share/recast/logs"

	defaultPodcastName = "lex-fridman-podcast"
	defaultHostName    = "レックス・フリードマン"

	defaultLanguage     = "ja"
	defaultFetchTimeout = 30
	defaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	defaultLongTextThreshold = 562
	defaultLongTextPauseMS   = 1000

	defaultVoiceVoxURL     = "http://127.0.0.1:50021"
	defaultVoiceVoxTimeout = 120
	defaultVoiceVoxHost    = "9"
	defaultVoiceVoxGuest   = "52"

	defaultGoogleLanguage = "ja-JP"
	defaultGoogleEncoding = "LINEAR16"
	defaultGoogleHost     = "ja-JP-Neural2-C"
	defaultGoogleGuest    = "ja-JP-Neural2-B"
	defaultGoogleGuest2   = "ja-JP-Neural2-D"

	defaultNotifyTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Backend and voice mode identifiers accepted in the [tts] section.
const (
	BackendVoiceVox = "voicevox"
	BackendGoogle   = "google"

	VoiceModeRanked = "ranked"
	VoiceModeRole   = "role"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TranscriptDir: defaultTranscripts,
			SegmentDir:    defaultSegments,
			LibraryDir:    defaultLibraryDir,
			LogDir:        defaultLogDir,
		},
		Podcast: Podcast{
			Name:  defaultPodcastName,
			Hosts: []string{defaultHostName},
		},
		Source: Source{
			Translate:    false,
			Language:     defaultLanguage,
			FetchTimeout: defaultFetchTimeout,
			UserAgent:    defaultUserAgent,
		},
		TTS: TTS{
			Backend:           BackendVoiceVox,
			VoiceMode:         VoiceModeRanked,
			LongTextThreshold: defaultLongTextThreshold,
			LongTextPauseMS:   defaultLongTextPauseMS,
		},
		VoiceVox: VoiceVox{
			URL:          defaultVoiceVoxURL,
			Timeout:      defaultVoiceVoxTimeout,
			HostVoice:    defaultVoiceVoxHost,
			GuestVoices:  []string{defaultVoiceVoxGuest},
			DefaultVoice: defaultVoiceVoxHost,
		},
		Google: Google{
			LanguageCode: defaultGoogleLanguage,
			Encoding:     defaultGoogleEncoding,
			HostVoice:    defaultGoogleHost,
			GuestVoices:  []string{defaultGoogleGuest, defaultGoogleGuest2},
			DefaultVoice: defaultGoogleHost,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
	}
}
