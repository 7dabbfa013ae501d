package preprocess

import (
	"fmt"
	"strings"

	"recast/internal/services"
	"recast/internal/transcript"
)

const (
	stageName     = "preprocess"
	excerptLength = 100
)

// Stats summarizes what a preprocessing pass changed.
type Stats struct {
	Segments int
	Filled   int
	Host     int
	Guest    int
}

// Preprocessor normalizes a raw transcript for synthesis.
type Preprocessor struct {
	Hosts []string
}

// Run fills missing speakers and assigns roles on a copy of raw. The input is
// never modified.
func (p Preprocessor) Run(raw *transcript.Transcript) (*transcript.Transcript, Stats, error) {
	out := raw.Clone()
	filled, err := FillSpeakers(out)
	if err != nil {
		return nil, Stats{}, err
	}
	host, guest, err := AssignRoles(out, p.Hosts)
	if err != nil {
		return nil, Stats{}, err
	}
	return out, Stats{
		Segments: out.SegmentCount(),
		Filled:   filled,
		Host:     host,
		Guest:    guest,
	}, nil
}

// FillSpeakers replaces empty speakers with the most recent non-empty speaker.
// The carried speaker spans chapter boundaries. A blank speaker with nothing
// to carry forward is an error.
func FillSpeakers(t *transcript.Transcript) (int, error) {
	var last string
	filled := 0
	for ci := range t.Chapters {
		ch := &t.Chapters[ci]
		for si := range ch.Segments {
			seg := &ch.Segments[si]
			speaker := strings.TrimSpace(seg.Speaker)
			if speaker != "" {
				seg.Speaker = speaker
				last = speaker
				continue
			}
			if last == "" {
				return filled, services.Wrap(
					services.ErrEmptySpeakerChain,
					stageName,
					"fill speakers",
					fmt.Sprintf("chapter %s segment %d has no speaker and no earlier speaker to carry forward: %q",
						ch.No, si, services.Excerpt(seg.Text, excerptLength)),
					nil,
				)
			}
			seg.Speaker = last
			filled++
		}
	}
	return filled, nil
}

// AssignRoles marks segments whose speaker exactly matches a roster entry as
// host and everything else as guest.
func AssignRoles(t *transcript.Transcript, roster []string) (host, guest int, err error) {
	hosts := make(map[string]struct{}, len(roster))
	for _, name := range roster {
		hosts[name] = struct{}{}
	}
	for ci := range t.Chapters {
		ch := &t.Chapters[ci]
		for si := range ch.Segments {
			seg := &ch.Segments[si]
			if strings.TrimSpace(seg.Speaker) == "" {
				return host, guest, services.Wrap(
					services.ErrUnresolvedSpeaker,
					stageName,
					"assign roles",
					fmt.Sprintf("chapter %s segment %d has no speaker: %q",
						ch.No, si, services.Excerpt(seg.Text, excerptLength)),
					nil,
				)
			}
			if _, ok := hosts[seg.Speaker]; ok {
				seg.Role = transcript.RoleHost
				host++
			} else {
				seg.Role = transcript.RoleGuest
				guest++
			}
		}
	}
	return host, guest, nil
}
