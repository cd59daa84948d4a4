package main

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/urfave/cli/v2"

	"quizbowl-match-service/internal/domain/packet"
	"quizbowl-match-service/internal/domain/roster"
	"quizbowl-match-service/internal/importer"
)

const (
	inputFlag     = "input"
	outputFlag    = "output"
	stdoutCLIName = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

func main() {
	var inputLocation string
	var outputLocation string

	app := &cli.App{
		Name:    "qbpacket",
		Usage:   "Convert quiz bowl packets between HTML, YAML, and JSON, and validate rosters",
		Version: semanticVersion,
		Commands: []*cli.Command{
			{
				Name:  "convert",
				Usage: "Read a packet (HTML, YAML, or JSON) and write it as YAML or JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        inputFlag,
						Aliases:     []string{"i"},
						Usage:       "URL or path of the packet to convert",
						Destination: &inputLocation,
						Required:    true,
					},
					&cli.StringFlag{
						Name:        outputFlag,
						Aliases:     []string{"o"},
						Usage:       "Output path (.yaml or .json), or - for stdout YAML",
						Destination: &outputLocation,
						Value:       stdoutCLIName,
					},
				},
				Action: func(*cli.Context) error {
					return convert(inputLocation, outputLocation)
				},
			},
			{
				Name:      "validate-roster",
				Usage:     "Check a roster YAML file for match play",
				ArgsUsage: "<roster.yaml>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one roster path")
					}
					return validateRoster(c.Args().First())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func convert(inputLocation, outputLocation string) error {
	p, err := readPacket(inputLocation)
	if err != nil {
		return err
	}

	if outputLocation == stdoutCLIName || outputLocation == "" {
		return importer.WritePacket(os.Stdout, "out.yaml", p)
	}

	f, err := os.Create(outputLocation)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	if err := importer.WritePacket(f, outputLocation, p); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d tossups and %d bonuses to %s\n",
		len(p.Tossups), len(p.Bonuses), outputLocation)
	return nil
}

// readPacket accepts either a URL (fetched and parsed as HTML) or a
// local file path dispatched on extension.
func readPacket(location string) (*packet.Packet, error) {
	if u, err := url.ParseRequestURI(location); err == nil && u.Scheme != "" {
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, fmt.Errorf("fetching packet page: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("invalid HTTP status code received: %v", resp.Status)
		}
		return importer.ParsePacketHTML(resp.Body)
	}
	return importer.ReadPacket(location)
}

func validateRoster(path string) error {
	players, err := importer.ReadRoster(path)
	if err != nil {
		return err
	}
	for _, team := range roster.TeamNames(players) {
		starters := 0
		for _, p := range roster.TeamPlayers(players, team) {
			if p.Starter {
				starters++
			}
		}
		fmt.Printf("%s: %d players, %d starters\n", team, len(roster.TeamPlayers(players, team)), starters)
	}
	fmt.Println("roster ok")
	return nil
}
