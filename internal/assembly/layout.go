package assembly

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"recast/internal/services"
	"recast/internal/textutil"
	"recast/internal/transcript"
)

// Layout derives every audio path for one episode.
//
//	<SegmentRoot>/<episode>/chapter-<no>/<episode>_<no>_<idx>.wav
//	<LibraryRoot>/<podcast>/<episode>/<episode>-chapter-<no>-<title>.wav
type Layout struct {
	SegmentRoot string
	LibraryRoot string
	Episode     string
	Podcast     string
}

// maxFileNameBytes keeps combined names, and the temp files written next to
// them, under the common 255 byte NAME_MAX.
const maxFileNameBytes = 200

// SegmentFile is a segment audio file found on disk.
type SegmentFile struct {
	Index int
	Path  string
}

// chapterKey is the chapter number as it appears in paths.
func chapterKey(no transcript.ChapterNo) string {
	return textutil.SanitizePathSegment(no.String())
}

func (l Layout) ChapterDir(no transcript.ChapterNo) string {
	return filepath.Join(l.SegmentRoot, l.Episode, "chapter-"+chapterKey(no))
}

func (l Layout) SegmentPath(no transcript.ChapterNo, idx int) string {
	name := fmt.Sprintf("%s_%s_%d.wav", l.Episode, chapterKey(no), idx)
	return filepath.Join(l.ChapterDir(no), name)
}

// CombinedPath shortens the title so the file name fits maxFileNameBytes.
func (l Layout) CombinedPath(no transcript.ChapterNo, title string) string {
	prefix := fmt.Sprintf("%s-chapter-%s-", l.Episode, chapterKey(no))
	const ext = ".wav"
	title = textutil.TruncateBytes(textutil.SanitizePathSegment(title), maxFileNameBytes-len(prefix)-len(ext))
	return filepath.Join(l.LibraryRoot, l.Podcast, l.Episode, prefix+title+ext)
}

// SegmentFiles lists the chapter's segment files ordered by numeric index.
// A missing chapter directory yields no files.
func (l Layout) SegmentFiles(no transcript.ChapterNo) ([]SegmentFile, error) {
	dir := l.ChapterDir(no)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrFileIO, "assemble", "list segments", dir, err)
	}

	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(l.Episode) + `_` + regexp.QuoteMeta(chapterKey(no)) + `_(\d+)\.wav$`)
	var files []SegmentFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, SegmentFile{Index: idx, Path: filepath.Join(dir, entry.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Index < files[j].Index })
	return files, nil
}

// VerifyComplete checks that a segment file exists for every segment of the
// chapter.
func (l Layout) VerifyComplete(ch transcript.Chapter) error {
	var missing []string
	for idx := range ch.Segments {
		path := l.SegmentPath(ch.No, idx)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, strconv.Itoa(idx))
				continue
			}
			return services.Wrap(services.ErrFileIO, "assemble", "verify segments", path, err)
		}
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "assemble", "verify segments",
			fmt.Sprintf("chapter %s is missing segments %s", ch.No, strings.Join(missing, ",")), nil)
	}
	return nil
}
