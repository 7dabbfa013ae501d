package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// TestSampleRate is the sample rate used by generated WAV fixtures.
const TestSampleRate = 24000

// WriteWAV writes a mono 16-bit WAV file holding samples at TestSampleRate.
func WriteWAV(t testing.TB, path string, samples []int) {
	t.Helper()
	WriteWAVFormat(t, path, TestSampleRate, 1, samples)
}

// WriteWAVFormat writes a 16-bit WAV file with the given layout.
func WriteWAVFormat(t testing.TB, path string, sampleRate, channels int, samples []int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize %s: %v", path, err)
	}
}

// WAVBytes returns an in-memory mono 16-bit WAV file, as a TTS backend would.
func WAVBytes(t testing.TB, samples []int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	WriteWAV(t, path, samples)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

// ReadWAV decodes a WAV file and returns its samples and format.
func ReadWAV(t testing.TB, path string) ([]int, *audio.Format) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatalf("%s is not a valid wav file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return buf.Data, buf.Format
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
