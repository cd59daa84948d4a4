package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"quizbowl-match-service/internal/domain/packet"
)

// packetFile mirrors packet.Packet with yaml tags so packets can be kept
// in either format.
type packetFile struct {
	Tossups []tossupEntry `yaml:"tossups" json:"tossups"`
	Bonuses []bonusEntry  `yaml:"bonuses" json:"bonuses"`
}

type tossupEntry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type bonusEntry struct {
	Leadin string      `yaml:"leadin" json:"leadin"`
	Parts  []partEntry `yaml:"parts" json:"parts"`
}

type partEntry struct {
	Text   string `yaml:"text" json:"text"`
	Answer string `yaml:"answer" json:"answer"`
	Value  int    `yaml:"value" json:"value"`
}

// ReadPacket parses a packet file, dispatching on extension: .yaml/.yml,
// .json, or .html.
func ReadPacket(path string) (*packet.Packet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading packet: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parsePacketYAML(data)
	case ".json":
		return parsePacketJSON(data)
	case ".html", ".htm":
		return ParsePacketHTML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported packet format %q", filepath.Ext(path))
	}
}

func parsePacketYAML(data []byte) (*packet.Packet, error) {
	var file packetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing packet yaml: %w", err)
	}
	return file.toPacket()
}

func parsePacketJSON(data []byte) (*packet.Packet, error) {
	var file packetFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing packet json: %w", err)
	}
	return file.toPacket()
}

func (f packetFile) toPacket() (*packet.Packet, error) {
	if len(f.Tossups) == 0 {
		return nil, fmt.Errorf("packet has no tossups")
	}
	p := &packet.Packet{}
	for i, t := range f.Tossups {
		if t.Question == "" {
			return nil, fmt.Errorf("tossup %d has no question text", i+1)
		}
		p.Tossups = append(p.Tossups, packet.Tossup{
			Question: t.Question,
			Answer:   t.Answer,
		})
	}
	for i, b := range f.Bonuses {
		if len(b.Parts) == 0 {
			return nil, fmt.Errorf("bonus %d has no parts", i+1)
		}
		bonus := packet.Bonus{Leadin: b.Leadin}
		for _, part := range b.Parts {
			value := part.Value
			if value == 0 {
				value = 10
			}
			bonus.Parts = append(bonus.Parts, packet.BonusPart{
				Text:   part.Text,
				Answer: part.Answer,
				Value:  value,
			})
		}
		p.Bonuses = append(p.Bonuses, bonus)
	}
	return p, nil
}
