package preprocess

import (
	"errors"
	"strings"
	"testing"

	"recast/internal/services"
	"recast/internal/transcript"
)

const host = "レックス・フリードマン"

func chapter(no int, segs ...transcript.Segment) transcript.Chapter {
	return transcript.Chapter{No: transcript.NewChapterNo(no), Title: "t", Segments: segs}
}

func seg(speaker, text string) transcript.Segment {
	return transcript.Segment{Speaker: speaker, Text: text}
}

func TestFillSpeakersCarriesAcrossChapters(t *testing.T) {
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{
		chapter(0, seg("A", "x"), seg("", "y")),
		chapter(1, seg("", "z")),
	}}

	filled, err := FillSpeakers(tr)
	if err != nil {
		t.Fatalf("FillSpeakers: %v", err)
	}
	if filled != 2 {
		t.Fatalf("expected 2 filled segments, got %d", filled)
	}
	if got := tr.Chapters[0].Segments[1].Speaker; got != "A" {
		t.Fatalf("chapter 0 segment 1 speaker = %q", got)
	}
	if got := tr.Chapters[1].Segments[0].Speaker; got != "A" {
		t.Fatalf("chapter 1 segment 0 speaker = %q", got)
	}
}

func TestFillSpeakersFailsOnLeadingEmpty(t *testing.T) {
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{
		chapter(0, seg("  ", "誰が話しているのか分からない")),
	}}

	_, err := FillSpeakers(tr)
	if !errors.Is(err, services.ErrEmptySpeakerChain) {
		t.Fatalf("expected ErrEmptySpeakerChain, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "chapter 0 segment 0") || !strings.Contains(msg, "誰が話しているのか") {
		t.Fatalf("expected chapter, index and excerpt in %q", msg)
	}
}

func TestAssignRoles(t *testing.T) {
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{
		chapter(0, seg(host, "a"), seg("Guest", "b"), seg(host+" ", "c")),
	}}

	h, g, err := AssignRoles(tr, []string{host})
	if err != nil {
		t.Fatalf("AssignRoles: %v", err)
	}
	if h != 1 || g != 2 {
		t.Fatalf("unexpected counts host=%d guest=%d", h, g)
	}
	roles := []transcript.Role{transcript.RoleHost, transcript.RoleGuest, transcript.RoleGuest}
	for i, want := range roles {
		if got := tr.Chapters[0].Segments[i].Role; got != want {
			t.Fatalf("segment %d role = %q, want %q", i, got, want)
		}
	}
}

func TestAssignRolesRejectsEmptySpeaker(t *testing.T) {
	tr := &transcript.Transcript{Chapters: []transcript.Chapter{chapter(0, seg("", "a"))}}
	if _, _, err := AssignRoles(tr, []string{host}); !errors.Is(err, services.ErrUnresolvedSpeaker) {
		t.Fatalf("expected ErrUnresolvedSpeaker, got %v", err)
	}
}

func TestRunLeavesRawUntouched(t *testing.T) {
	raw := &transcript.Transcript{EpisodeName: "ep", Chapters: []transcript.Chapter{
		chapter(0, seg(host, "a"), seg("", "b")),
		chapter(1, seg("Guest", "c")),
	}}

	out, stats, err := Preprocessor{Hosts: []string{host}}.Run(raw)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if raw.Chapters[0].Segments[1].Speaker != "" || raw.Chapters[0].Segments[0].Role != "" {
		t.Fatal("raw transcript was modified")
	}
	if err := out.ValidatePreprocessed(); err != nil {
		t.Fatalf("output not valid: %v", err)
	}
	want := Stats{Segments: 3, Filled: 1, Host: 2, Guest: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}
