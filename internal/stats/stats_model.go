package stats

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/pkg/cricket"
)

// PlayerStat is the cumulative per-player statistics record for the current
// season. Counter columns are rebuilt from StatContribution rows; the derived
// columns (average, strike rate, economy, display strings) are recomputed on
// every write and stored so list endpoints can sort on them in SQL.
type PlayerStat struct {
	gorm.Model
	PlayerID string `json:"player_id" gorm:"uniqueIndex;not null"`
	Name     string `json:"name"`
	Team     string `json:"team"` // team of the player's most recent appearance

	Matches int `json:"matches"`
	Innings int `json:"innings"`
	NotOuts int `json:"not_outs"`

	Runs         int `json:"runs"`
	Balls        int `json:"balls"`
	Fours        int `json:"fours"`
	Sixes        int `json:"sixes"`
	HighestScore int `json:"highest_score"`

	Wickets     int `json:"wickets"`
	BowlingRuns int `json:"bowling_runs"`
	BallsBowled int `json:"balls_bowled"`

	BestBowlingWickets int `json:"-"`
	BestBowlingRuns    int `json:"-"`

	// Derived, recomputed by Recompute().
	Average     float64 `json:"average"`
	StrikeRate  float64 `json:"strike_rate"`
	Economy     float64 `json:"economy"`
	Overs       string  `json:"overs"`        // bowling workload as "O.B"
	BestBowling string  `json:"best_bowling"` // "W/R", empty if never bowled
}

// Recompute refreshes the derived columns from the counters.
func (s *PlayerStat) Recompute() {
	dismissals := s.Innings - s.NotOuts
	if dismissals > 0 {
		s.Average = roundTo(float64(s.Runs)/float64(dismissals), 2)
	} else {
		// Never dismissed: convention is average == runs.
		s.Average = float64(s.Runs)
	}

	if s.Balls > 0 {
		s.StrikeRate = roundTo(float64(s.Runs)/float64(s.Balls)*100, 2)
	} else {
		s.StrikeRate = 0
	}

	if s.BallsBowled > 0 {
		s.Economy = roundTo(float64(s.BowlingRuns)/cricket.TrueOvers(s.BallsBowled), 2)
	} else {
		s.Economy = 0
	}

	s.Overs = cricket.OversFromBalls(s.BallsBowled)
	if s.BestBowlingWickets > 0 || s.BallsBowled > 0 {
		s.BestBowling = fmt.Sprintf("%d/%d", s.BestBowlingWickets, s.BestBowlingRuns)
	} else {
		s.BestBowling = ""
	}
}

// BetterBowling reports whether figures (wickets1, runs1) beat
// (wickets2, runs2): more wickets wins, equal wickets and fewer runs wins.
func BetterBowling(wickets1, runs1, wickets2, runs2 int) bool {
	if wickets1 != wickets2 {
		return wickets1 > wickets2
	}
	return runs1 < runs2
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// ProcessedMatch marks a match as folded into the cumulative statistics.
// ProcessKey is the match id plus its last-update timestamp: a repeated
// notification with the same key inside the suppression window is absorbed,
// while an edit (new UpdatedAt) always gets through.
type ProcessedMatch struct {
	gorm.Model
	MatchID     uint      `gorm:"uniqueIndex;not null"`
	ProcessKey  string    `gorm:"index;not null"`
	ProcessedAt time.Time `gorm:"not null"`
}

// StatContribution is one match's contribution to one player's statistics.
// The aggregator deletes and reinserts a match's rows on every (re)process,
// then rebuilds the affected players' cumulative records from their rows.
// Exactly one row exists per player per match even when the player both
// batted and bowled, which is what keeps the matches counter honest.
type StatContribution struct {
	gorm.Model
	MatchID  uint   `gorm:"index:idx_contrib_match;not null"`
	PlayerID string `gorm:"index:idx_contrib_player;not null"`
	Name     string
	Team     string

	Batted bool
	Runs   int
	Balls  int
	Fours  int
	Sixes  int
	Out    bool

	Bowled       bool
	BallsBowled  int
	RunsConceded int
	Wickets      int
}
