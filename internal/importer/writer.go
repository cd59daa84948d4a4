package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"quizbowl-match-service/internal/domain/packet"
)

// WritePacket encodes the packet to w in the format implied by the
// output path extension (.yaml/.yml or .json).
func WritePacket(w io.Writer, path string, p *packet.Packet) error {
	if p == nil {
		return fmt.Errorf("no packet to write")
	}
	file := fromPacket(p)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&file); err != nil {
			return fmt.Errorf("encoding packet yaml: %w", err)
		}
		return enc.Close()
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&file); err != nil {
			return fmt.Errorf("encoding packet json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

func fromPacket(p *packet.Packet) packetFile {
	file := packetFile{}
	for _, t := range p.Tossups {
		file.Tossups = append(file.Tossups, tossupEntry{
			Question: t.Question,
			Answer:   t.Answer,
		})
	}
	for _, b := range p.Bonuses {
		entry := bonusEntry{Leadin: b.Leadin}
		for _, part := range b.Parts {
			entry.Parts = append(entry.Parts, partEntry{
				Text:   part.Text,
				Answer: part.Answer,
				Value:  part.Value,
			})
		}
		file.Bonuses = append(file.Bonuses, entry)
	}
	return file
}
