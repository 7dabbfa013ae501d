package voices

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"recast/internal/logging"
	"recast/internal/services"
	"recast/internal/transcript"
)

// Selector picks the voice used to synthesize a segment.
type Selector interface {
	VoiceFor(seg transcript.Segment) string
}

// Pool is the set of voices available to one backend.
type Pool struct {
	Host    string
	Guests  []string
	Default string
}

// Entry is one row of a voice map, in ranking order.
type Entry struct {
	Speaker  string
	Role     transcript.Role
	Segments int
	Voice    string
	Overflow bool
}

// Map assigns a voice to every known speaker.
type Map struct {
	voices   map[string]string
	entries  []Entry
	fallback string
	logger   *slog.Logger
}

// Assign ranks guest speakers by segment count and hands out pool voices in
// that order. Ties keep first-appearance order. Guests beyond the pool share
// its last voice and are reported in a warning. Every roster name maps to the
// host voice.
func Assign(ctx context.Context, t *transcript.Transcript, hosts []string, pool Pool, logger *slog.Logger) (*Map, error) {
	logger = logging.NewComponentLogger(logger, "voices")

	type tally struct {
		speaker string
		count   int
	}
	var order []*tally
	index := make(map[string]*tally)
	hostCounts := make(map[string]int)
	for _, ch := range t.Chapters {
		for _, seg := range ch.Segments {
			if seg.IsHost() {
				hostCounts[seg.Speaker]++
				continue
			}
			entry, ok := index[seg.Speaker]
			if !ok {
				entry = &tally{speaker: seg.Speaker}
				index[seg.Speaker] = entry
				order = append(order, entry)
			}
			entry.count++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].count > order[j].count })

	if len(order) > 0 && len(pool.Guests) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "voices", "assign", "guest speakers present but guest voice pool is empty", nil)
	}

	m := &Map{
		voices:   make(map[string]string, len(hosts)+len(order)),
		fallback: pool.Default,
		logger:   logger,
	}
	for _, name := range hosts {
		if _, dup := m.voices[name]; dup {
			continue
		}
		m.voices[name] = pool.Host
		m.entries = append(m.entries, Entry{
			Speaker:  name,
			Role:     transcript.RoleHost,
			Segments: hostCounts[name],
			Voice:    pool.Host,
		})
	}

	var overflow []string
	for i, entry := range order {
		voice := ""
		over := i >= len(pool.Guests)
		if over {
			voice = pool.Guests[len(pool.Guests)-1]
			overflow = append(overflow, entry.speaker)
		} else {
			voice = pool.Guests[i]
		}
		m.voices[entry.speaker] = voice
		m.entries = append(m.entries, Entry{
			Speaker:  entry.speaker,
			Role:     transcript.RoleGuest,
			Segments: entry.count,
			Voice:    voice,
			Overflow: over,
		})
	}

	if len(overflow) > 0 {
		logging.WarnWithContext(ctx, logger, "more guest speakers than guest voices",
			"voice_pool_overflow",
			logging.Int("pool_size", len(pool.Guests)),
			logging.String("shared_voice", pool.Guests[len(pool.Guests)-1]),
			logging.Strings("speakers", overflow),
			logging.String(logging.FieldImpact, "overflowing speakers share the last guest voice"),
		)
	}

	logger.DebugContext(ctx, "voice map assigned",
		logging.Int("guests", len(order)),
		logging.Int("hosts", len(hosts)),
	)
	return m, nil
}

// VoiceFor returns the speaker's voice, or the default voice for speakers the
// map has never seen.
func (m *Map) VoiceFor(seg transcript.Segment) string {
	if voice, ok := m.voices[seg.Speaker]; ok {
		return voice
	}
	m.logger.Debug("speaker not in voice map, using default voice",
		logging.String("speaker", seg.Speaker),
		logging.String("voice", m.fallback),
	)
	return m.fallback
}

// Entries returns the map rows: hosts first, then guests by rank.
func (m *Map) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// RoleSplit uses one voice for hosts and one for everyone else.
type RoleSplit struct {
	Host  string
	Guest string
}

func (r RoleSplit) VoiceFor(seg transcript.Segment) string {
	if seg.IsHost() {
		return r.Host
	}
	return r.Guest
}

// RoleSplitFromPool builds a RoleSplit using the first guest voice.
func RoleSplitFromPool(pool Pool) RoleSplit {
	guest := pool.Default
	if len(pool.Guests) > 0 {
		guest = pool.Guests[0]
	}
	return RoleSplit{Host: strings.TrimSpace(pool.Host), Guest: guest}
}

// Summarize lists every speaker in first-appearance order with the voice sel
// gives them. Hosts come first.
func Summarize(t *transcript.Transcript, sel Selector) []Entry {
	var hosts, guests []Entry
	index := make(map[string]int)
	for _, ch := range t.Chapters {
		for _, seg := range ch.Segments {
			key := string(seg.Role) + "\x00" + seg.Speaker
			if i, ok := index[key]; ok {
				if seg.IsHost() {
					hosts[i].Segments++
				} else {
					guests[i].Segments++
				}
				continue
			}
			entry := Entry{Speaker: seg.Speaker, Role: seg.Role, Segments: 1, Voice: sel.VoiceFor(seg)}
			if seg.IsHost() {
				index[key] = len(hosts)
				hosts = append(hosts, entry)
			} else {
				index[key] = len(guests)
				guests = append(guests, entry)
			}
		}
	}
	return append(hosts, guests...)
}
