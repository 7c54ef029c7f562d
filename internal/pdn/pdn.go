// Package pdn renders finished draughts matches as Portable Draughts Notation:
// a tag section followed by numbered movetext, analogous to chess PGN.
package pdn

import (
	"fmt"
	"strings"
	"time"
)

// Fixed deployment tags.
const (
	tagEvent = "Kid Draughts"
	tagSite  = "Roblox"
	tagRound = "?"

	// DefaultVariant is assumed when a match carries no ruleset name.
	DefaultVariant = "International"

	// ResultUnknown is the PDN token for a result that was never reported.
	ResultUnknown = "*"
)

// gameTypeCodes maps ruleset names to the numeric PDN GameType tag.
// Unrecognized rulesets fall back to International's code.
var gameTypeCodes = map[string]string{
	"International": "20",
	"Brazilian":     "26",
	"Turkish":       "30",
}

// tagOrder is the deterministic tag rendering order.
var tagOrder = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result", "GameType"}

// Ply is one half-move. A ply with an empty Notation is treated as missing
// and terminates the movetext.
type Ply struct {
	Notation string
}

// Match describes the finished game handed to the formatter.
type Match struct {
	Variant string
	White   string
	Black   string
	Result  string
	Plies   []Ply
}

// Document is the formatter output: the tag map plus the fully rendered text.
type Document struct {
	Tags map[string]string
	Text string
}

// Formatter renders Match descriptions. Everything except the Date tag is a
// pure function of the input; Date comes from the wall clock.
type Formatter struct {
	nowFn func() time.Time
}

// NewFormatter returns a Formatter stamping the current UTC date.
func NewFormatter() *Formatter {
	return &Formatter{
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Format produces the PDN tags and rendered text for the match.
func (f *Formatter) Format(m Match) Document {
	tags := f.deriveTags(m)

	var b strings.Builder
	for _, name := range tagOrder {
		b.WriteString(fmt.Sprintf("[%s \"%s\"]\n", name, tags[name]))
	}
	b.WriteString("\n")
	b.WriteString(movetext(m.Plies, tags["Result"]))

	return Document{
		Tags: tags,
		Text: strings.TrimSpace(b.String()),
	}
}

func (f *Formatter) deriveTags(m Match) map[string]string {
	variant := m.Variant
	if variant == "" {
		variant = DefaultVariant
	}

	gameType, ok := gameTypeCodes[variant]
	if !ok {
		gameType = gameTypeCodes[DefaultVariant]
	}

	white := m.White
	if white == "" {
		white = "White"
	}
	black := m.Black
	if black == "" {
		black = "Black"
	}

	result := m.Result
	if result == "" {
		result = ResultUnknown
	}

	now := f.nowFn()

	return map[string]string{
		"Event":    tagEvent,
		"Site":     tagSite,
		"Date":     fmt.Sprintf("%04d.%02d.%02d", now.Year(), int(now.Month()), now.Day()),
		"Round":    tagRound,
		"White":    white,
		"Black":    black,
		"Result":   result,
		"GameType": gameType,
	}
}

// movetext consumes plies two at a time starting at move number 1. The first
// white ply without notation terminates the movetext; pairs are never skipped
// over. The result token always closes the text.
func movetext(plies []Ply, result string) string {
	var b strings.Builder
	for i := 0; i < len(plies); i += 2 {
		white := strings.TrimSpace(plies[i].Notation)
		if white == "" {
			break
		}

		b.WriteString(fmt.Sprintf("%d. %s", i/2+1, white))
		if i+1 < len(plies) {
			if black := strings.TrimSpace(plies[i+1].Notation); black != "" {
				b.WriteString(" ")
				b.WriteString(black)
			}
		}
		b.WriteString(" ")
	}

	b.WriteString(result)
	return b.String()
}
