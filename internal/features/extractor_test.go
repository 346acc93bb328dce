package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/peytons-picks/internal/models"
)

func spread(v float64) *float64 { return &v }

func testGame() *models.Game {
	return &models.Game{
		Week:          3,
		GameID:        "w3-uga-bama",
		HomeTeam:      "Georgia",
		AwayTeam:      "Alabama",
		Favorite:      "Georgia",
		Underdog:      "Alabama",
		OpeningSpread: spread(-7),
	}
}

func TestExtractMovement(t *testing.T) {
	snap := &models.MarketSnapshot{
		GameID:          "w3-uga-bama",
		ConsensusSpread: spread(-8.5),
		ConsensusTotal:  spread(48.5),
		BooksCovered:    6,
		FetchedAt:       time.Now(),
	}

	v := Extract(testGame(), snap)
	assert.InDelta(t, 1.5, v.Movement, 1e-9)
	assert.Equal(t, 1.0, v.HomeEdge)
	assert.InDelta(t, 0.015*7+0.005*48.5, v.VariancePenalty, 1e-9)
}

func TestExtractNoSnapshot(t *testing.T) {
	v := Extract(testGame(), nil)
	assert.Zero(t, v.Movement)
	assert.InDelta(t, 0.015*7+0.005*DefaultTotal, v.VariancePenalty, 1e-9)
}

func TestExtractSnapshotWithoutSpread(t *testing.T) {
	snap := &models.MarketSnapshot{GameID: "w3-uga-bama", ConsensusTotal: spread(61)}
	v := Extract(testGame(), snap)
	assert.Zero(t, v.Movement)
	assert.InDelta(t, 0.015*7+0.005*61, v.VariancePenalty, 1e-9)
}

func TestExtractAwayFavorite(t *testing.T) {
	g := testGame()
	g.Favorite = "Alabama"
	g.Underdog = "Georgia"
	v := Extract(g, nil)
	assert.Equal(t, -1.0, v.HomeEdge)
}

func TestExtractUnknownFavorite(t *testing.T) {
	g := testGame()
	g.Favorite = ""
	g.Underdog = ""
	v := Extract(g, nil)
	assert.Zero(t, v.HomeEdge)
}

func TestForSideFlipsDirectionalFeatures(t *testing.T) {
	snap := &models.MarketSnapshot{GameID: "w3-uga-bama", ConsensusSpread: spread(-6)}
	fav := Extract(testGame(), snap)
	dog := fav.ForSide(models.PickSideUnderdog)

	assert.Equal(t, -fav.Movement, dog.Movement)
	assert.Equal(t, -fav.HomeEdge, dog.HomeEdge)
	assert.Equal(t, fav.VariancePenalty, dog.VariancePenalty)
	assert.Equal(t, fav, fav.ForSide(models.PickSideFavorite))
}
