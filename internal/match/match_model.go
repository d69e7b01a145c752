package match

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/internal/models"
)

type MatchStatus string

const (
	StatusMatchUpcoming  MatchStatus = "upcoming"
	StatusMatchLive      MatchStatus = "live"
	StatusMatchCompleted MatchStatus = "completed"
)

// MatchType classifies a fixture for the points table. Regular league fixtures
// carry "knockout" (or nothing at all on old records); playoff fixtures carry
// one of the override types and never count toward standings.
type MatchType string

const (
	MatchTypeKnockout   MatchType = "knockout"
	MatchTypeQualifier1 MatchType = "qualifier1"
	MatchTypeQualifier2 MatchType = "qualifier2"
	MatchTypeEliminator MatchType = "eliminator"
	MatchTypeFinal      MatchType = "final"
)

// IsLeague reports whether a match of this type contributes to standings.
// An empty type is treated as knockout for records created before the
// playoff types existed.
func (t MatchType) IsLeague() bool {
	return t == "" || t == MatchTypeKnockout
}

// DismissalType for cricket wickets
type DismissalType string

const (
	DismissalTypeBowled      DismissalType = "bowled"
	DismissalTypeCaught      DismissalType = "caught"
	DismissalTypeLBW         DismissalType = "lbw"
	DismissalTypeRunOut      DismissalType = "run_out"
	DismissalTypeStumped     DismissalType = "stumped"
	DismissalTypeHitWicket   DismissalType = "hit_wicket"
	DismissalTypeRetiredHurt DismissalType = "retired_hurt"
	DismissalTypeNotOut      DismissalType = "not_out" // For batsmen remaining at the end
)

// ExtrasPlayerID is the sentinel playerId of the non-player extras row in a
// batting scorecard. It never contributes to player statistics.
const ExtrasPlayerID = "extras"

// TeamScore is the final innings summary for one side, stored as JSONB.
// Overs is the "O.B" display string (completed overs, balls into current
// over), NOT a decimal.
type TeamScore struct {
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Overs   string `json:"overs"`
}

func (s TeamScore) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan unmarshals a JSONB column into the struct.
func (s *TeamScore) Scan(src interface{}) error {
	b, ok := models.JSONSourceBytes(src)
	if !ok {
		return fmt.Errorf("TeamScore: expected []byte or string, got %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, s)
}

// BattingEntry is one row of a team's batting scorecard.
type BattingEntry struct {
	PlayerID      string        `json:"player_id"`
	Name          string        `json:"name"`
	Runs          int           `json:"runs"`
	Balls         int           `json:"balls"`
	Fours         int           `json:"fours"`
	Sixes         int           `json:"sixes"`
	IsOut         bool          `json:"is_out"`
	DismissalType DismissalType `json:"dismissal_type,omitempty"`
}

// IsExtras reports whether this row is the extras sentinel rather than a player.
func (e BattingEntry) IsExtras() bool {
	return e.PlayerID == ExtrasPlayerID || strings.Contains(strings.ToLower(e.Name), "extras")
}

// BowlingEntry is one row of a team's bowling scorecard. Overs is the
// pseudo-decimal figure (3.4 = 3 overs and 4 balls).
type BowlingEntry struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Overs    float64 `json:"overs"`
	Runs     int     `json:"runs"` // runs conceded
	Wickets  int     `json:"wickets"`
}

func (e BowlingEntry) IsExtras() bool {
	return e.PlayerID == ExtrasPlayerID || strings.Contains(strings.ToLower(e.Name), "extras")
}

// BattingScorecard maps a team name to its ordered batting entries (JSONB column).
type BattingScorecard map[string][]BattingEntry

func (c BattingScorecard) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *BattingScorecard) Scan(src interface{}) error {
	b, ok := models.JSONSourceBytes(src)
	if !ok {
		return fmt.Errorf("BattingScorecard: expected []byte or string, got %T", src)
	}
	if len(b) == 0 {
		*c = nil
		return nil
	}
	return json.Unmarshal(b, c)
}

// BowlingScorecard maps a team name to its ordered bowling entries (JSONB column).
type BowlingScorecard map[string][]BowlingEntry

func (c BowlingScorecard) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *BowlingScorecard) Scan(src interface{}) error {
	b, ok := models.JSONSourceBytes(src)
	if !ok {
		return fmt.Errorf("BowlingScorecard: expected []byte or string, got %T", src)
	}
	if len(b) == 0 {
		*c = nil
		return nil
	}
	return json.Unmarshal(b, c)
}

// Match is the source-of-truth record for one fixture: final team scores,
// per-player scorecards and lifecycle status. The stats engine only ever
// reads completed records.
type Match struct {
	gorm.Model
	Team1       string      `json:"team1" gorm:"not null;index"`
	Team2       string      `json:"team2" gorm:"not null;index"`
	Status      MatchStatus `json:"status" gorm:"index;default:'upcoming'"`
	MatchType   MatchType   `json:"match_type" gorm:"index;default:'knockout'"`
	SeasonID    string      `json:"season_id" gorm:"index"`
	ScheduledAt time.Time   `json:"scheduled_at" gorm:"index"`

	Team1Score *TeamScore `json:"team1_score,omitempty" gorm:"type:jsonb"`
	Team2Score *TeamScore `json:"team2_score,omitempty" gorm:"type:jsonb"`

	BattingScorecard BattingScorecard `json:"batting_scorecard,omitempty" gorm:"type:jsonb"`
	BowlingScorecard BowlingScorecard `json:"bowling_scorecard,omitempty" gorm:"type:jsonb"`

	ResultSummary string `json:"result_summary,omitempty" gorm:"type:text"` // e.g. "Tigers won by 2 runs"
}

// EligibleForStats reports whether this record may be folded into player
// statistics: completed, at least one scorecard present, both scores present.
func (m *Match) EligibleForStats() bool {
	if m.Status != StatusMatchCompleted {
		return false
	}
	if len(m.BattingScorecard) == 0 && len(m.BowlingScorecard) == 0 {
		return false
	}
	return m.Team1Score != nil && m.Team2Score != nil
}

// HasBothScores reports whether both innings summaries are recorded.
func (m *Match) HasBothScores() bool {
	return m.Team1Score != nil && m.Team2Score != nil
}

// ProcessKey identifies the version of this record last seen by the stats
// engine: the id plus the last-update timestamp. An edit changes the key and
// so defeats the reprocessing suppression window.
func (m *Match) ProcessKey() string {
	return fmt.Sprintf("%d:%d", m.ID, m.UpdatedAt.Unix())
}
