package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/squad-builder/internal/catalog"
)

const rawExport = `fifa_version,short_name,long_name,player_positions,overall,potential,pace,shooting,passing,dribbling,defending,physic,value_eur,wage_eur,age,nationality_name,club_name
24,K. Mbappé,Kylian Mbappé Lottin,"ST, LW",91,94,97,90,80,92,36,78,181500000.0,230000.0,24,France,Paris Saint Germain
24,Alisson,Alisson Ramses Becker,GK,89,89,,,,,,,66500000.0,180000.0,30,Brazil,Liverpool
23,K. Mbappé,Kylian Mbappé Lottin,"ST, LW",91,95,97,89,80,92,36,77,190500000.0,230000.0,23,France,Paris Saint Germain
24,V. van Dijk,Virgil van Dijk,CB,89,89,78,60,71,72,NaN,86,37000000.0,220000.0,31,Netherlands,Liverpool
24,A. Robertson,Andrew Robertson,LB,86,86,82,62,80,80,81,77,45000000.0,160000.0,29,Scotland,Liverpool
`

func writeRaw(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "male_players.csv")
	require.NoError(t, os.WriteFile(path, []byte(rawExport), 0o600))
	return path
}

func resetIngestFlags(t *testing.T) {
	t.Cleanup(func() {
		ingestCSV, ingestVersion, ingestOut, ingestDryRun = "", 0, "", false
		configPath = ""
	})
}

func TestIngest_DryRunWritesCleanedCSV(t *testing.T) {
	resetIngestFlags(t)
	raw := writeRaw(t)
	out := filepath.Join(t.TempDir(), "cleaned.csv")

	stdout, err := execute(t, "ingest", "--config", writeConfig(t, raw), "--csv", raw, "--version", "24", "--out", out, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 of 5 rows kept (dry run)")

	players, err := catalog.CSVLoader{Path: out, Version: 24}.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "K. Mbappé", players[0].ShortName)
	assert.Equal(t, "A. Robertson", players[2].ShortName)
}

func TestIngest_NoUsableRows(t *testing.T) {
	resetIngestFlags(t)
	raw := writeRaw(t)

	_, err := execute(t, "ingest", "--config", writeConfig(t, raw), "--csv", raw, "--version", "22", "--dry-run")
	var unavailable *catalog.DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestIngest_RequiresDatabase(t *testing.T) {
	resetIngestFlags(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQUAD_DATABASE__URL", "")
	raw := writeRaw(t)

	_, err := execute(t, "ingest", "--config", writeConfig(t, raw), "--csv", raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestSearchCommand(t *testing.T) {
	resetIngestFlags(t)
	t.Cleanup(func() { searchPosition, searchQuery, searchLimit = "", "", 20 })
	raw := writeRaw(t)

	stdout, err := execute(t, "search", "--config", writeConfig(t, raw), "--position", "LB", "--query", "liverpool")
	require.NoError(t, err)
	assert.Contains(t, stdout, "A. Robertson")
	assert.NotContains(t, stdout, "K. Mbappé")
}
