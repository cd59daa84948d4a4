package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"quizbowl-match-service/internal/domain/packet"
)

var (
	tossupClassRegex   = regexp.MustCompile(`\btossup\b`)
	bonusClassRegex    = regexp.MustCompile(`\bbonus\b`)
	questionClassRegex = regexp.MustCompile(`\bquestion\b`)
	answerClassRegex   = regexp.MustCompile(`\banswer\b`)
	leadinClassRegex   = regexp.MustCompile(`\bleadin\b`)
	partClassRegex     = regexp.MustCompile(`\bpart\b`)
)

// ParsePacketHTML extracts tossups and bonuses from an exported packet
// page. Tossups live in elements classed "tossup" with "question" and
// "answer" children; bonuses in elements classed "bonus" with an
// optional "leadin" and repeated "part"/"answer" pairs. Part values come
// from a data-value attribute, defaulting to 10.
func ParsePacketHTML(r io.Reader) (*packet.Packet, error) {
	z := html.NewTokenizer(r)
	p := &packet.Packet{}

	inTossup := false
	inBonus := false
	inQuestion := false
	inAnswer := false
	inLeadin := false
	inPart := false
	partValue := 0

	var tossup packet.Tossup
	var bonus packet.Bonus

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("parsing packet html: %w", err)
			}
			if len(p.Tossups) == 0 {
				return nil, fmt.Errorf("packet html contains no tossups")
			}
			return p, nil
		case html.StartTagToken:
			t := z.Token()
			class := attrValue(t, "class")
			switch {
			case tossupClassRegex.MatchString(class):
				inTossup = true
				inBonus = false
				tossup = packet.Tossup{}
			case bonusClassRegex.MatchString(class):
				if inTossup {
					p.Tossups = append(p.Tossups, tossup)
					inTossup = false
				}
				inBonus = true
				bonus = packet.Bonus{}
			case questionClassRegex.MatchString(class):
				inQuestion = inTossup
			case leadinClassRegex.MatchString(class):
				inLeadin = inBonus
			case partClassRegex.MatchString(class):
				inPart = inBonus
				partValue = 10
				if raw := attrValue(t, "data-value"); raw != "" {
					if v, err := strconv.Atoi(raw); err == nil && v > 0 {
						partValue = v
					}
				}
			case answerClassRegex.MatchString(class):
				inAnswer = inTossup || inBonus
			}
		case html.EndTagToken:
			t := z.Token()
			if t.Data == "div" || t.Data == "section" {
				if inTossup {
					p.Tossups = append(p.Tossups, tossup)
					inTossup = false
				}
				if inBonus && len(bonus.Parts) > 0 {
					p.Bonuses = append(p.Bonuses, bonus)
					inBonus = false
				}
			}
			inQuestion = false
			inLeadin = false
		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			switch {
			case inQuestion:
				tossup.Question = joinText(tossup.Question, text)
			case inLeadin:
				bonus.Leadin = joinText(bonus.Leadin, text)
			case inPart:
				bonus.Parts = append(bonus.Parts, packet.BonusPart{Text: text, Value: partValue})
				inPart = false
			case inAnswer && inTossup:
				tossup.Answer = joinText(tossup.Answer, text)
				inAnswer = false
			case inAnswer && inBonus && len(bonus.Parts) > 0:
				bonus.Parts[len(bonus.Parts)-1].Answer = text
				inAnswer = false
			}
		}
	}
}

func attrValue(t html.Token, key string) string {
	for _, attr := range t.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func joinText(existing, text string) string {
	if existing == "" {
		return text
	}
	return existing + " " + text
}
