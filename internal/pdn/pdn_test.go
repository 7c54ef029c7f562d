package pdn

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedFormatter() *Formatter {
	return &Formatter{
		nowFn: func() time.Time {
			return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
		},
	}
}

func TestFormat_TagDerivation(t *testing.T) {
	tests := []struct {
		name     string
		match    Match
		expected map[string]string
	}{
		{
			name: "international with named players",
			match: Match{
				Variant: "International",
				White:   "Ann",
				Black:   "Bo",
				Result:  "1-0",
			},
			expected: map[string]string{
				"Event":    "Kid Draughts",
				"Site":     "Roblox",
				"Date":     "2026.03.14",
				"Round":    "?",
				"White":    "Ann",
				"Black":    "Bo",
				"Result":   "1-0",
				"GameType": "20",
			},
		},
		{
			name:  "brazilian code",
			match: Match{Variant: "Brazilian", Result: "0-1"},
			expected: map[string]string{
				"Event":    "Kid Draughts",
				"Site":     "Roblox",
				"Date":     "2026.03.14",
				"Round":    "?",
				"White":    "White",
				"Black":    "Black",
				"Result":   "0-1",
				"GameType": "26",
			},
		},
		{
			name:  "turkish code",
			match: Match{Variant: "Turkish", Result: "1/2-1/2"},
			expected: map[string]string{
				"Event":    "Kid Draughts",
				"Site":     "Roblox",
				"Date":     "2026.03.14",
				"Round":    "?",
				"White":    "White",
				"Black":    "Black",
				"Result":   "1/2-1/2",
				"GameType": "30",
			},
		},
		{
			name:  "unknown variant falls back to international code",
			match: Match{Variant: "Frisian", Result: "1-0"},
			expected: map[string]string{
				"Event":    "Kid Draughts",
				"Site":     "Roblox",
				"Date":     "2026.03.14",
				"Round":    "?",
				"White":    "White",
				"Black":    "Black",
				"Result":   "1-0",
				"GameType": "20",
			},
		},
		{
			name:  "all defaults",
			match: Match{},
			expected: map[string]string{
				"Event":    "Kid Draughts",
				"Site":     "Roblox",
				"Date":     "2026.03.14",
				"Round":    "?",
				"White":    "White",
				"Black":    "Black",
				"Result":   "*",
				"GameType": "20",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := fixedFormatter().Format(tc.match)
			require.Equal(t, tc.expected, doc.Tags)
		})
	}
}

func TestFormat_Movetext(t *testing.T) {
	tests := []struct {
		name     string
		plies    []Ply
		result   string
		expected string
	}{
		{
			name: "trailing white ply without black",
			plies: []Ply{
				{Notation: "32-28"},
				{Notation: "19-23"},
				{Notation: "28x19"},
			},
			result:   "1-0",
			expected: "1. 32-28 19-23 2. 28x19 1-0",
		},
		{
			name: "two full pairs",
			plies: []Ply{
				{Notation: "32-28"},
				{Notation: "19-23"},
				{Notation: "28x19"},
				{Notation: "14x23"},
			},
			result:   "0-1",
			expected: "1. 32-28 19-23 2. 28x19 14x23 0-1",
		},
		{
			name:     "empty move list with unset result",
			plies:    nil,
			result:   "",
			expected: "*",
		},
		{
			name: "empty white notation terminates mid-array",
			plies: []Ply{
				{Notation: "32-28"},
				{Notation: "19-23"},
				{Notation: ""},
				{Notation: "14x23"},
			},
			result:   "1/2-1/2",
			expected: "1. 32-28 19-23 1/2-1/2",
		},
		{
			name: "missing black notation does not terminate",
			plies: []Ply{
				{Notation: "32-28"},
				{Notation: ""},
				{Notation: "28-22"},
			},
			result:   "*",
			expected: "1. 32-28 2. 28-22 *",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := fixedFormatter().Format(Match{Result: tc.result, Plies: tc.plies})
			_, movetext, found := strings.Cut(doc.Text, "\n\n")
			require.True(t, found, "document must have a blank line after tags")
			require.Equal(t, tc.expected, movetext)
		})
	}
}

func TestFormat_Rendering(t *testing.T) {
	doc := fixedFormatter().Format(Match{
		Variant: "International",
		White:   "Ann",
		Black:   "Bo",
		Result:  "1-0",
		Plies: []Ply{
			{Notation: "32-28"},
			{Notation: "19-23"},
			{Notation: "28x19"},
		},
	})

	expected := strings.Join([]string{
		`[Event "Kid Draughts"]`,
		`[Site "Roblox"]`,
		`[Date "2026.03.14"]`,
		`[Round "?"]`,
		`[White "Ann"]`,
		`[Black "Bo"]`,
		`[Result "1-0"]`,
		`[GameType "20"]`,
		``,
		`1. 32-28 19-23 2. 28x19 1-0`,
	}, "\n")

	require.Equal(t, expected, doc.Text)
	require.NotContains(t, doc.Text, "\n\n\n")
}

func TestFormat_DateUsesWallClock(t *testing.T) {
	f := NewFormatter()
	doc := f.Format(Match{})

	today := time.Now().UTC()
	require.Equal(t, fmt.Sprintf("%04d.%02d.%02d", today.Year(), int(today.Month()), today.Day()), doc.Tags["Date"])
}
