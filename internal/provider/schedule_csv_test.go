package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

const sampleSheet = `week,game_date,kickoff_local,away_team,home_team,favorite,spread,notes
5,2026-10-03,12:00,Michigan,Ohio State,Ohio State,-7.5,rivalry
5,2026-10-03,15:30,Iowa,Penn State,Iowa,3,
5,2026-10-04,19:00,Duke,Wake Forest,,,no line yet
`

func TestParseScheduleCSV(t *testing.T) {
	games, err := ParseScheduleCSV(strings.NewReader(sampleSheet))
	require.NoError(t, err)
	require.Len(t, games, 3)

	g := games[0]
	assert.Equal(t, 5, g.Week)
	assert.Equal(t, "w5-michigan-ohio-state", g.GameID)
	assert.Equal(t, "Ohio State", g.Favorite)
	assert.Equal(t, "Michigan", g.Underdog)
	require.NotNil(t, g.OpeningSpread)
	assert.Equal(t, -7.5, *g.OpeningSpread)
	require.NotNil(t, g.GameDate)
	assert.Equal(t, "rivalry", g.Notes)

	// A positive sheet spread is normalized to the signed convention, and an
	// away favorite maps the underdog to the home side.
	g = games[1]
	assert.Equal(t, "Iowa", g.Favorite)
	assert.Equal(t, "Penn State", g.Underdog)
	require.NotNil(t, g.OpeningSpread)
	assert.Equal(t, -3.0, *g.OpeningSpread)

	// Lineless rows import with nil spread and unresolved sides.
	g = games[2]
	assert.Empty(t, g.Favorite)
	assert.Empty(t, g.Underdog)
	assert.Nil(t, g.OpeningSpread)
}

func TestParseScheduleCSVRejectsBadRows(t *testing.T) {
	_, err := ParseScheduleCSV(strings.NewReader("week,home_team\n5,A\n"))
	assert.ErrorIs(t, err, models.ErrInputUnavailable)

	_, err = ParseScheduleCSV(strings.NewReader(
		"week,away_team,home_team,favorite\n5,B,A,Nobody\n"))
	assert.ErrorIs(t, err, models.ErrInputUnavailable)

	_, err = ParseScheduleCSV(strings.NewReader(
		"week,away_team,home_team,spread\n5,B,A,seven\n"))
	assert.ErrorIs(t, err, models.ErrInputUnavailable)

	_, err = ParseScheduleCSV(strings.NewReader(
		"week,away_team,home_team\nzero,B,A\n"))
	assert.ErrorIs(t, err, models.ErrInputUnavailable)
}

func TestImportCSVStoresRows(t *testing.T) {
	games := &fakeGameRepo{}
	repos := &repository.Repositories{Game: games}
	importer := NewScheduleImporter(repos, quietLogger())

	n, err := importer.ImportCSV(context.Background(), strings.NewReader(sampleSheet))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, games.games, 3)
}
