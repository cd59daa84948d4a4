package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbowl-match-service/internal/domain/roster"
)

const validRoster = `teams:
  Alpha:
    - name: Alice
      starter: true
    - name: Bob
  Beta:
    - name: Carol
      starter: true
    - name: Dave
      starter: true
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRoster(t *testing.T) {
	players, err := ReadRoster(writeTemp(t, "roster.yaml", validRoster))
	require.NoError(t, err)

	require.Len(t, players, 4)
	assert.Equal(t, roster.Player{Name: "Alice", Team: "Alpha", Starter: true}, players[0])
	assert.Equal(t, roster.Player{Name: "Bob", Team: "Alpha"}, players[1])
	assert.Equal(t, []string{"Alpha", "Beta"}, roster.TeamNames(players))
}

func TestReadRosterMissingFile(t *testing.T) {
	_, err := ReadRoster(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseRosterRejectsOneTeam(t *testing.T) {
	_, err := parseRoster([]byte(`teams:
  Alpha:
    - name: Alice
      starter: true
`))
	assert.ErrorContains(t, err, "exactly two teams")
}

func TestParseRosterRejectsThreeTeams(t *testing.T) {
	_, err := parseRoster([]byte(`teams:
  Alpha:
    - {name: Alice, starter: true}
  Beta:
    - {name: Carol, starter: true}
  Gamma:
    - {name: Eve, starter: true}
`))
	assert.ErrorContains(t, err, "exactly two teams")
}

func TestParseRosterRequiresStarters(t *testing.T) {
	_, err := parseRoster([]byte(`teams:
  Alpha:
    - name: Alice
  Beta:
    - {name: Carol, starter: true}
`))
	assert.ErrorContains(t, err, "no starters")
}

func TestParseRosterRejectsUnnamedPlayer(t *testing.T) {
	_, err := parseRoster([]byte(`teams:
  Alpha:
    - starter: true
  Beta:
    - {name: Carol, starter: true}
`))
	assert.ErrorContains(t, err, "without a name")
}

func TestParseRosterRejectsGarbage(t *testing.T) {
	_, err := parseRoster([]byte("teams: [not, a, map"))
	assert.Error(t, err)
}
