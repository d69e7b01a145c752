package career

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/internal/models"
	"github.com/PatelKrish-16/crease/pkg/cricket"
)

// NormalizeName collapses a display name into a lookup key: lowercase,
// single-spaced. Used to match stat rows against registration records.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// CareerStat is one player's all-time totals across seasons. Identity is
// the registration phone number when one exists and the normalized player
// name otherwise, so an unregistered player still accumulates a career.
type CareerStat struct {
	gorm.Model
	Identity    string `json:"identity" gorm:"uniqueIndex;not null"`
	DisplayName string `json:"display_name"`

	Matches    int `json:"matches"`
	Innings    int `json:"innings"`
	Runs       int `json:"runs"`
	BallsFaced int `json:"balls_faced"`
	Fours      int `json:"fours"`
	Sixes      int `json:"sixes"`
	NotOuts    int `json:"not_outs"`

	BallsBowled  int `json:"balls_bowled"`
	RunsConceded int `json:"runs_conceded"`
	Wickets      int `json:"wickets"`

	BestBowlingWickets int `json:"-"`
	BestBowlingRuns    int `json:"-"`

	Average     float64 `json:"average"`
	StrikeRate  float64 `json:"strike_rate"`
	Economy     float64 `json:"economy"`
	BestBowling string  `json:"best_bowling"`

	SeasonsPlayed models.StringSlice `json:"seasons_played" gorm:"type:jsonb"`
}

// Recompute refreshes every derived figure from the raw counters.
func (c *CareerStat) Recompute() {
	dismissals := c.Innings - c.NotOuts
	if dismissals > 0 {
		c.Average = roundTo2(float64(c.Runs) / float64(dismissals))
	} else {
		c.Average = float64(c.Runs)
	}

	if c.BallsFaced > 0 {
		c.StrikeRate = roundTo2(float64(c.Runs) / float64(c.BallsFaced) * 100)
	} else {
		c.StrikeRate = 0
	}

	if c.BallsBowled > 0 {
		c.Economy = roundTo2(float64(c.RunsConceded) / cricket.TrueOvers(c.BallsBowled))
	} else {
		c.Economy = 0
	}

	if c.BallsBowled > 0 || c.BestBowlingWickets > 0 {
		c.BestBowling = fmt.Sprintf("%d/%d", c.BestBowlingWickets, c.BestBowlingRuns)
	} else {
		c.BestBowling = ""
	}
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SeasonArchive is one archived record from a season rollover. Rows sharing
// a BatchID form one complete backup; Payload holds the original row as JSON
// so a failed or regretted rollover can be restored verbatim.
type SeasonArchive struct {
	gorm.Model
	BatchID    string         `json:"batch_id" gorm:"index;not null"`
	SeasonID   string         `json:"season_id" gorm:"index"`
	Collection string         `json:"collection" gorm:"not null"`
	DocID      uint           `json:"doc_id"`
	Payload    models.RawJSON `json:"payload" gorm:"type:jsonb"`
	ArchivedAt time.Time      `json:"archived_at"`
}
