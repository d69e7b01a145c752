package standings

import (
	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/pkg/cricket"
)

// TeamStanding is one row of the points table. Ball counts are stored as
// integers; the "O.B" display strings on match records are converted on the
// way in and formatted back only in responses.
type TeamStanding struct {
	gorm.Model
	TeamName      string `json:"team_name" gorm:"uniqueIndex;not null"`
	MatchesPlayed int    `json:"matches_played"`
	Won           int    `json:"won"`
	Lost          int    `json:"lost"`
	Tied          int    `json:"tied"`
	Points        int    `json:"points"`

	RunsFor     int `json:"runs_for"`
	BallsFaced  int `json:"balls_faced"`
	RunsAgainst int `json:"runs_against"`
	BallsBowled int `json:"balls_bowled"`

	NetRunRate float64 `json:"net_run_rate"`

	// Position is stamped after sorting, 1-indexed; never persisted.
	Position int `json:"position" gorm:"-"`
}

// RecomputeNRR refreshes the net run rate from the accumulated totals:
// runs scored per over minus runs conceded per over, to 3 decimal places.
// A zero denominator contributes zero rather than dividing.
func (s *TeamStanding) RecomputeNRR() {
	var forRate, againstRate float64
	if s.BallsFaced > 0 {
		forRate = float64(s.RunsFor) / cricket.TrueOvers(s.BallsFaced)
	}
	if s.BallsBowled > 0 {
		againstRate = float64(s.RunsAgainst) / cricket.TrueOvers(s.BallsBowled)
	}
	s.NetRunRate = roundTo3(forRate - againstRate)
}

func roundTo3(v float64) float64 {
	const factor = 1000
	if v >= 0 {
		return float64(int64(v*factor+0.5)) / factor
	}
	return float64(int64(v*factor-0.5)) / factor
}
