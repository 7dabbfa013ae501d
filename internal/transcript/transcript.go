package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Role distinguishes host speech from guest speech. The zero value means the
// role has not been assigned yet.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// ParseRole accepts "host" or "guest" (case-insensitive).
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleHost:
		return RoleHost, nil
	case RoleGuest:
		return RoleGuest, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// UnmarshalJSON rejects roles other than host and guest.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role: %w", err)
	}
	if s == "" {
		*r = ""
		return nil
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Segment is one contiguous utterance by one speaker.
type Segment struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Role      Role   `json:"role,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// IsHost reports whether the segment was spoken by a host.
func (s Segment) IsHost() bool {
	return s.Role == RoleHost
}

// ChapterNo is a chapter ordinal. Source documents carry either numbers or
// strings; numeric values are written back as JSON numbers.
type ChapterNo string

// NewChapterNo formats an integer ordinal.
func NewChapterNo(n int) ChapterNo {
	return ChapterNo(strconv.Itoa(n))
}

func (n ChapterNo) String() string { return string(n) }

// MarshalJSON writes integer ordinals as numbers and anything else as a string.
func (n ChapterNo) MarshalJSON() ([]byte, error) {
	if v, err := strconv.ParseInt(string(n), 10, 64); err == nil && strconv.FormatInt(v, 10) == string(n) {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (n *ChapterNo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("chapter no: %w", err)
		}
		*n = ChapterNo(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("chapter no: %w", err)
	}
	*n = ChapterNo(num.String())
	return nil
}

// Chapter is an ordered run of segments under one heading.
type Chapter struct {
	No       ChapterNo `json:"no"`
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
}

// Transcript is a whole episode. Chapter and segment order are canonical.
type Transcript struct {
	EpisodeName string
	PodcastName string
	Chapters    []Chapter
}

// SegmentCount returns the number of segments across all chapters.
func (t *Transcript) SegmentCount() int {
	total := 0
	for _, ch := range t.Chapters {
		total += len(ch.Segments)
	}
	return total
}

// Clone returns a deep copy.
func (t *Transcript) Clone() *Transcript {
	out := &Transcript{
		EpisodeName: t.EpisodeName,
		PodcastName: t.PodcastName,
		Chapters:    make([]Chapter, len(t.Chapters)),
	}
	for i, ch := range t.Chapters {
		out.Chapters[i] = Chapter{
			No:       ch.No,
			Title:    ch.Title,
			Segments: append([]Segment(nil), ch.Segments...),
		}
	}
	return out
}

// ValidatePreprocessed checks that every segment has a speaker and a role.
func (t *Transcript) ValidatePreprocessed() error {
	for _, ch := range t.Chapters {
		for idx, seg := range ch.Segments {
			if strings.TrimSpace(seg.Speaker) == "" {
				return fmt.Errorf("chapter %s segment %d: empty speaker", ch.No, idx)
			}
			if seg.Role != RoleHost && seg.Role != RoleGuest {
				return fmt.Errorf("chapter %s segment %d: role not assigned", ch.No, idx)
			}
		}
	}
	return nil
}
