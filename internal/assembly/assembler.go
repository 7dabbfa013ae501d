package assembly

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"recast/internal/fileutil"
	"recast/internal/logging"
	"recast/internal/services"
	"recast/internal/transcript"
)

// Skip reasons reported in Result.
const (
	SkipExists     = "combined file exists"
	SkipNoSegments = "no segment files"
	SkipNoAudio    = "segments contain no audio"
)

const pcmFormat = 1

// Result describes the outcome of assembling one chapter.
type Result struct {
	Path     string
	Segments int
	Skipped  string
}

// Assembler joins segment audio into one file per chapter.
type Assembler struct {
	Layout Layout
	Logger *slog.Logger
}

// NewAssembler constructs an assembler for the given layout.
func NewAssembler(layout Layout, logger *slog.Logger) *Assembler {
	return &Assembler{Layout: layout, Logger: logging.NewComponentLogger(logger, "assembly")}
}

type wavFormat struct {
	sampleRate int
	bitDepth   int
	channels   int
}

func (f wavFormat) String() string {
	return fmt.Sprintf("%dHz/%dbit/%dch", f.sampleRate, f.bitDepth, f.channels)
}

// Concatenate writes the chapter's combined audio: every segment file in
// numeric index order, back to back. An existing combined file is left alone,
// and a chapter with no segment files produces nothing.
func (a *Assembler) Concatenate(ctx context.Context, ch transcript.Chapter) (Result, error) {
	logger := logging.WithContext(ctx, a.logger())
	out := a.Layout.CombinedPath(ch.No, ch.Title)

	exists, err := fileutil.Exists(out)
	if err != nil {
		return Result{}, services.Wrap(services.ErrFileIO, "assemble", "stat combined", out, err)
	}
	if exists {
		logger.InfoContext(ctx, "combined chapter already exists, skipping", logging.String("path", out))
		return Result{Path: out, Skipped: SkipExists}, nil
	}

	files, err := a.Layout.SegmentFiles(ch.No)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		logging.WarnWithContext(ctx, a.logger(), "no segment files for chapter, skipping concatenation",
			"chapter_empty",
			logging.String("chapter_dir", a.Layout.ChapterDir(ch.No)),
			logging.String(logging.FieldImpact, "no combined file is written for this chapter"),
		)
		return Result{Path: out, Skipped: SkipNoSegments}, nil
	}

	samples, err := writeCombined(ctx, out, files)
	if err != nil {
		return Result{}, err
	}
	if samples == 0 {
		logging.WarnWithContext(ctx, a.logger(), "segment files hold no samples, skipping concatenation",
			"chapter_silent",
			logging.String("chapter_dir", a.Layout.ChapterDir(ch.No)),
			logging.Int("segments", len(files)),
			logging.String(logging.FieldImpact, "no combined file is written for this chapter"),
		)
		return Result{Path: out, Skipped: SkipNoAudio}, nil
	}

	logger.InfoContext(ctx, "combined chapter written",
		logging.String("path", out),
		logging.Int("segments", len(files)),
	)
	return Result{Path: out, Segments: len(files)}, nil
}

// writeCombined returns the number of samples written. Nothing is committed
// when that number is zero.
func writeCombined(ctx context.Context, out string, files []SegmentFile) (int, error) {
	dst, err := fileutil.CreateAtomic(out, 0o644)
	if err != nil {
		return 0, services.Wrap(services.ErrFileIO, "assemble", "create combined", out, err)
	}
	defer dst.Abort()

	var (
		enc     *wav.Encoder
		format  wavFormat
		written int
	)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		buf, segFormat, err := decodeSegment(file.Path)
		if err != nil {
			return 0, err
		}
		if enc == nil {
			format = segFormat
			enc = wav.NewEncoder(dst.File, format.sampleRate, format.bitDepth, format.channels, pcmFormat)
		} else if segFormat != format {
			return 0, services.Wrap(services.ErrValidation, "assemble", "concatenate",
				fmt.Sprintf("%s is %s, expected %s", file.Path, segFormat, format), nil)
		}
		if len(buf.Data) == 0 {
			continue
		}
		if err := enc.Write(buf); err != nil {
			return 0, services.Wrap(services.ErrFileIO, "assemble", "encode", out, err)
		}
		written += len(buf.Data)
	}
	if written == 0 {
		return 0, nil
	}
	if err := enc.Close(); err != nil {
		return 0, services.Wrap(services.ErrFileIO, "assemble", "finalize", out, err)
	}
	if err := dst.Commit(); err != nil {
		return 0, services.Wrap(services.ErrFileIO, "assemble", "commit", out, err)
	}
	return written, nil
}

func decodeSegment(path string) (*audio.IntBuffer, wavFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wavFormat{}, services.Wrap(services.ErrFileIO, "assemble", "open segment", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, wavFormat{}, services.Wrap(services.ErrValidation, "assemble", "decode segment", path+" is not a valid wav file", nil)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, wavFormat{}, services.Wrap(services.ErrValidation, "assemble", "decode segment", path, err)
	}
	format := wavFormat{
		sampleRate: int(dec.SampleRate),
		bitDepth:   int(dec.BitDepth),
		channels:   int(dec.NumChans),
	}
	buf.SourceBitDepth = format.bitDepth
	return buf, format, nil
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger == nil {
		return logging.NewNop()
	}
	return a.Logger
}
