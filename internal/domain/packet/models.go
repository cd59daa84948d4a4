package packet

import (
	"strings"

	"github.com/go-andiamo/splitter"
)

// Tossup is a single buzzable question with its answer line.
type Tossup struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BonusPart is one part of a bonus with its point value.
type BonusPart struct {
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
	Value  int    `json:"value"`
}

// Bonus is a multi-part question awarded to the team that won the
// preceding tossup.
type Bonus struct {
	Leadin string      `json:"leadin,omitempty"`
	Parts  []BonusPart `json:"parts"`
}

// Value sums the point values of all parts.
func (b Bonus) Value() int {
	total := 0
	for _, part := range b.Parts {
		total += part.Value
	}
	return total
}

// Packet is an immutable ordered set of tossups and bonuses. The match
// model treats it as a read-only snapshot after loading.
type Packet struct {
	Tossups []Tossup `json:"tossups"`
	Bonuses []Bonus  `json:"bonuses"`
}

// wordSplitter keeps parenthesized pronunciation guides and quoted titles
// attached to the word they annotate, so buzz positions line up with what
// the reader actually says.
var wordSplitter = newWordSplitter()

func newWordSplitter() splitter.Splitter {
	s, err := splitter.NewSplitter(' ',
		splitter.Parenthesis, splitter.SquareBrackets, splitter.DoubleQuotes)
	if err != nil {
		panic(err)
	}
	return s.AddDefaultOptions(splitter.IgnoreEmpties, splitter.TrimSpaces)
}

// Words tokenizes the question text into the buzzable word positions.
func (t Tossup) Words() []string {
	if t.Question == "" {
		return nil
	}
	words, err := wordSplitter.Split(t.Question)
	if err != nil {
		// Unbalanced quotes or brackets in question text; fall back to a
		// plain whitespace split so the question stays usable.
		return strings.Fields(t.Question)
	}
	return words
}

// WordCount reports the number of buzzable word positions. A buzz at or
// past this position is after the question ended.
func (t Tossup) WordCount() int {
	return len(t.Words())
}
