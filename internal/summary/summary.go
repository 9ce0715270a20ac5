// Package summary computes the per-section activity summary shown on cards.
package summary

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/mawang/internal/domain"
)

type Pluralizer interface {
	Plural(key string, n int) string
}

type ModCount struct {
	ModName string
	Count   int
}

// Stats summarises the modules of one section as seen by one user.
type Stats struct {
	Mods           []ModCount
	Activities     int
	Readings       int
	Videos         int
	DurationMin    int
	Completed      int
	Total          int
	ShowCompletion bool
}

// SectionStats tallies the user-visible modules of a section. states holds
// the user's completion per module id; canComplete is false for guests.
// Durations are read from the durationField custom field of each module.
func SectionStats(modules []*domain.CourseModule, states map[int64]domain.CompletionState, canComplete bool, durationField string) Stats {
	var s Stats
	index := map[string]int{}
	for _, m := range modules {
		if !m.UserVisible {
			continue
		}
		if i, ok := index[m.ModName]; ok {
			s.Mods[i].Count++
		} else {
			index[m.ModName] = len(s.Mods)
			s.Mods = append(s.Mods, ModCount{ModName: m.ModName, Count: 1})
		}

		switch {
		case m.ModName == "video":
			s.Videos++
		case m.Purpose == domain.PurposeContent:
			s.Readings++
		default:
			s.Activities++
		}
		s.DurationMin += m.FieldInt(durationField)

		if canComplete && m.Tracked() {
			s.ShowCompletion = true
			s.Total++
			if states[m.ID].IsComplete() {
				s.Completed++
			}
		}
	}
	return s
}

// PurposeLines renders the activity, reading and video counts, omitting
// zero counts.
func (s Stats) PurposeLines(p Pluralizer) []string {
	var out []string
	if s.Activities > 0 {
		out = append(out, p.Plural("activity", s.Activities))
	}
	if s.Readings > 0 {
		out = append(out, p.Plural("reading", s.Readings))
	}
	if s.Videos > 0 {
		out = append(out, p.Plural("video", s.Videos))
	}
	return out
}

// ModLines renders the count per module type in first-seen order.
func (s Stats) ModLines(p Pluralizer) []string {
	out := make([]string, 0, len(s.Mods))
	for _, m := range s.Mods {
		out = append(out, p.Plural(m.ModName, m.Count))
	}
	return out
}

// Duration is DurationString of the summed module durations.
func (s Stats) Duration() string {
	return DurationString(s.DurationMin)
}

// CompletionLine is "completed/total", or empty when nothing is tracked.
func (s Stats) CompletionLine() string {
	if !s.ShowCompletion {
		return ""
	}
	return strconv.Itoa(s.Completed) + "/" + strconv.Itoa(s.Total)
}

// DurationString formats minutes as "1h 30m", "45m" or "2h". Zero and
// negative durations render as "".
func DurationString(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	minutes %= 60
	var b strings.Builder
	if hours > 0 {
		b.WriteString(strconv.Itoa(hours))
		b.WriteString("h ")
	}
	if minutes > 0 {
		b.WriteString(strconv.Itoa(minutes))
		b.WriteString("m")
	}
	return strings.TrimSpace(b.String())
}
