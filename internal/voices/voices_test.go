package voices

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"recast/internal/services"
	"recast/internal/transcript"
)

func guestSegments(speaker string, n int) []transcript.Segment {
	out := make([]transcript.Segment, n)
	for i := range out {
		out[i] = transcript.Segment{Speaker: speaker, Text: "t", Role: transcript.RoleGuest}
	}
	return out
}

func TestAssignOverflowToLastVoice(t *testing.T) {
	var segs []transcript.Segment
	segs = append(segs, guestSegments("Rare", 1)...)
	segs = append(segs, guestSegments("Frequent", 10)...)
	segs = append(segs, transcript.Segment{Speaker: "Host", Text: "h", Role: transcript.RoleHost})
	segs = append(segs, guestSegments("Middle", 5)...)
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{{No: "0", Segments: segs}}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	pool := Pool{Host: "h", Guests: []string{"g1", "g2"}, Default: "d"}

	m, err := Assign(context.Background(), tr, []string{"Host"}, pool, logger)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	want := map[string]string{"Host": "h", "Frequent": "g1", "Middle": "g2", "Rare": "g2"}
	for speaker, voice := range want {
		if got := m.VoiceFor(transcript.Segment{Speaker: speaker}); got != voice {
			t.Errorf("VoiceFor(%s) = %q, want %q", speaker, got, voice)
		}
	}

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "Rare") {
		t.Fatalf("expected overflow warning naming Rare, got %q", out)
	}
	if entries := m.Entries(); !entries[len(entries)-1].Overflow || entries[len(entries)-2].Overflow {
		t.Fatalf("expected only Rare to overflow, got %+v", entries)
	}

	entries := m.Entries()
	if len(entries) != 4 || entries[0].Speaker != "Host" || entries[1].Speaker != "Frequent" || entries[1].Segments != 10 {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestAssignTiesKeepFirstAppearance(t *testing.T) {
	var segs []transcript.Segment
	segs = append(segs, guestSegments("B", 2)...)
	segs = append(segs, guestSegments("A", 2)...)
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{{No: "0", Segments: segs}}}

	m, err := Assign(context.Background(), tr, nil, Pool{Guests: []string{"g1", "g2"}}, nil)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if m.VoiceFor(transcript.Segment{Speaker: "B"}) != "g1" || m.VoiceFor(transcript.Segment{Speaker: "A"}) != "g2" {
		t.Fatalf("tie order not preserved: %+v", m.Entries())
	}
}

func TestAssignNoWarningWithinPool(t *testing.T) {
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{{No: "0", Segments: guestSegments("Only", 3)}}}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	if _, err := Assign(context.Background(), tr, nil, Pool{Guests: []string{"g1", "g2"}}, logger); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("unexpected warning: %q", buf.String())
	}
}

func TestAssignEmptyPoolWithGuests(t *testing.T) {
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{{No: "0", Segments: guestSegments("G", 1)}}}
	_, err := Assign(context.Background(), tr, nil, Pool{Host: "h"}, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestVoiceForFallsBackToDefault(t *testing.T) {
	tr := &transcript.Transcript{}
	m, err := Assign(context.Background(), tr, []string{"Host"}, Pool{Host: "h", Guests: []string{"g"}, Default: "d"}, nil)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got := m.VoiceFor(transcript.Segment{Speaker: "Stranger"}); got != "d" {
		t.Fatalf("VoiceFor = %q, want default", got)
	}
}

func TestRoleSplit(t *testing.T) {
	sel := RoleSplitFromPool(Pool{Host: "9", Guests: []string{"52", "13"}})
	if got := sel.VoiceFor(transcript.Segment{Role: transcript.RoleHost}); got != "9" {
		t.Fatalf("host voice = %q", got)
	}
	if got := sel.VoiceFor(transcript.Segment{Role: transcript.RoleGuest}); got != "52" {
		t.Fatalf("guest voice = %q", got)
	}
}

func TestSummarizeRoleSplit(t *testing.T) {
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{{No: "0", Segments: []transcript.Segment{
		{Speaker: "G1", Role: transcript.RoleGuest},
		{Speaker: "H", Role: transcript.RoleHost},
		{Speaker: "G2", Role: transcript.RoleGuest},
		{Speaker: "G1", Role: transcript.RoleGuest},
	}}}}
	entries := Summarize(tr, RoleSplit{Host: "h", Guest: "g"})
	if len(entries) != 3 {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[0].Speaker != "H" || entries[0].Voice != "h" {
		t.Fatalf("expected host first, got %+v", entries[0])
	}
	if entries[1].Speaker != "G1" || entries[1].Segments != 2 || entries[1].Voice != "g" {
		t.Fatalf("unexpected guest entry %+v", entries[1])
	}
}
