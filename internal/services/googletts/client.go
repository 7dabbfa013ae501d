package googletts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const backendName = "google"

// SpeechClient is the subset of the Cloud Text-to-Speech client used here.
type SpeechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// Config holds request defaults and credentials.
type Config struct {
	CredentialsFile string
	LanguageCode    string
	Encoding        string
}

// Client synthesizes speech with Google Cloud Text-to-Speech.
type Client struct {
	speech       SpeechClient
	languageCode string
	encoding     texttospeechpb.AudioEncoding
}

// New dials the Text-to-Speech API. It fails when no credentials can be found.
func New(ctx context.Context, cfg Config) (*Client, error) {
	encoding, err := ParseEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	speech, err := texttospeech.NewClient(ctx, ClientOptions(cfg.CredentialsFile)...)
	if err != nil {
		return nil, fmt.Errorf("texttospeech client: %w", err)
	}
	return NewWithClient(speech, cfg.LanguageCode, encoding), nil
}

// NewWithClient wraps an existing speech client.
func NewWithClient(speech SpeechClient, languageCode string, encoding texttospeechpb.AudioEncoding) *Client {
	return &Client{
		speech:       speech,
		languageCode: strings.TrimSpace(languageCode),
		encoding:     encoding,
	}
}

// ClientOptions resolves credentials from an explicit file, then from
// GOOGLE_APPLICATION_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS.
// Inline JSON values are supported for the environment variables.
func ClientOptions(credentialsFile string) []option.ClientOption {
	creds := strings.TrimSpace(credentialsFile)
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	}
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// ParseEncoding maps an encoding name to its protobuf value. Only encodings
// that come back as WAV containers are accepted, since chapter assembly
// decodes segment files as WAV.
func ParseEncoding(name string) (texttospeechpb.AudioEncoding, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = texttospeechpb.AudioEncoding_LINEAR16.String()
	}
	value, ok := texttospeechpb.AudioEncoding_value[key]
	if !ok || value == int32(texttospeechpb.AudioEncoding_AUDIO_ENCODING_UNSPECIFIED) {
		return 0, fmt.Errorf("google tts: unknown audio encoding %q", name)
	}
	encoding := texttospeechpb.AudioEncoding(value)
	if encoding != texttospeechpb.AudioEncoding_LINEAR16 {
		return 0, fmt.Errorf("google tts: audio encoding %s is not a WAV container; use LINEAR16", key)
	}
	return encoding, nil
}

func (c *Client) Name() string { return backendName }

// Synthesize requests audio for text spoken by the named voice.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: c.languageCode,
			Name:         strings.TrimSpace(voice),
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: c.encoding,
		},
	}
	resp, err := c.speech.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	return resp.GetAudioContent(), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.speech == nil {
		return nil
	}
	return c.speech.Close()
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("google tts authentication failed (check credentials): %w", err)
	case codes.InvalidArgument:
		return fmt.Errorf("google tts rejected the request (check voice name and language code): %w", err)
	case codes.ResourceExhausted:
		return fmt.Errorf("google tts quota exhausted: %w", err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("google tts unavailable: %w", err)
	default:
		return fmt.Errorf("google tts: %w", err)
	}
}
