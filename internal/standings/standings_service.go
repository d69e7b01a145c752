package standings

import (
	"fmt"
	"log"
	"sort"

	"github.com/PatelKrish-16/crease/internal/match"
	"github.com/PatelKrish-16/crease/pkg/cricket"
)

// TeamLister supplies the known team names so the points table can show a
// zero row for teams that have not played yet (satisfied by team.TeamRepository).
type TeamLister interface {
	GetTeamNames() ([]string, error)
}

// Service computes the points table from completed league matches. Playoff
// fixtures (qualifiers, eliminator, final) never move the table.
type Service struct {
	matchRepo match.MatchRepository
	teams     TeamLister
	repo      StandingsRepository
}

// NewService creates the standings calculator.
func NewService(matchRepo match.MatchRepository, teams TeamLister, repo StandingsRepository) *Service {
	return &Service{matchRepo: matchRepo, teams: teams, repo: repo}
}

// Summary reports the result of a standings recalculation.
type Summary struct {
	ProcessedMatches int `json:"processed_matches"`
	SkippedMatches   int `json:"skipped_matches"`
	Teams            int `json:"teams"`
}

// countsForStandings reports whether a match moves the points table.
func countsForStandings(m *match.Match) bool {
	return m.Status == match.StatusMatchCompleted && m.HasBothScores() && m.MatchType.IsLeague()
}

// Recalculate clears the points table and rebuilds it from every eligible
// completed match. Teams with no matches still appear with a zero row. A
// match with a malformed overs string is logged and skipped.
func (s *Service) Recalculate() (*Summary, error) {
	if err := s.repo.DeleteAll(); err != nil {
		return nil, fmt.Errorf("clearing standings: %w", err)
	}

	teamNames, err := s.teams.GetTeamNames()
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	table := make(map[string]*TeamStanding)
	order := make([]string, 0, len(teamNames))
	ensure := func(name string) *TeamStanding {
		if st, ok := table[name]; ok {
			return st
		}
		st := &TeamStanding{TeamName: name}
		table[name] = st
		order = append(order, name)
		return st
	}
	for _, name := range teamNames {
		ensure(name)
	}

	matches, err := s.matchRepo.GetCompletedMatches()
	if err != nil {
		return nil, fmt.Errorf("listing completed matches: %w", err)
	}

	summary := &Summary{}
	for i := range matches {
		m := &matches[i]
		if !countsForStandings(m) {
			continue
		}
		if err := applyResult(ensure(m.Team1), ensure(m.Team2), m); err != nil {
			log.Printf("WARNING: skipping match %d in standings: %v", m.ID, err)
			summary.SkippedMatches++
			continue
		}
		summary.ProcessedMatches++
	}

	rows := make([]TeamStanding, 0, len(order))
	for _, name := range order {
		rows = append(rows, *table[name])
	}
	if err := s.repo.CreateBatch(rows); err != nil {
		return nil, fmt.Errorf("saving standings: %w", err)
	}
	summary.Teams = len(rows)

	return summary, nil
}

// RebuildStandings satisfies the aggregator's StandingsApplier surface.
func (s *Service) RebuildStandings() error {
	_, err := s.Recalculate()
	return err
}

// ApplyMatch folds a single match into the existing table without a full
// rebuild. It is the low-latency path on match completion; callers must
// guarantee at-most-once invocation per match (the aggregator's processed
// marker does this), since applying the same match twice double counts.
func (s *Service) ApplyMatch(m *match.Match) error {
	if !countsForStandings(m) {
		return nil
	}

	st1, err := s.loadOrInit(m.Team1)
	if err != nil {
		return err
	}
	st2, err := s.loadOrInit(m.Team2)
	if err != nil {
		return err
	}

	if err := applyResult(st1, st2, m); err != nil {
		return err
	}

	if err := s.repo.Save(st1); err != nil {
		return err
	}
	return s.repo.Save(st2)
}

func (s *Service) loadOrInit(teamName string) (*TeamStanding, error) {
	st, err := s.repo.GetByTeam(teamName)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &TeamStanding{TeamName: teamName}
	}
	return st, nil
}

// applyResult accumulates one match into both team rows. Win is 2 points,
// tie 1 each, loss 0. Each side's runs-for/balls-faced mirror the other
// side's runs-against/balls-bowled exactly.
func applyResult(st1, st2 *TeamStanding, m *match.Match) error {
	balls1, err := cricket.BallsFromOvers(m.Team1Score.Overs)
	if err != nil {
		return fmt.Errorf("team1 overs: %w", err)
	}
	balls2, err := cricket.BallsFromOvers(m.Team2Score.Overs)
	if err != nil {
		return fmt.Errorf("team2 overs: %w", err)
	}

	runs1 := m.Team1Score.Runs
	runs2 := m.Team2Score.Runs

	st1.MatchesPlayed++
	st2.MatchesPlayed++

	switch {
	case runs1 > runs2:
		st1.Won++
		st1.Points += 2
		st2.Lost++
	case runs2 > runs1:
		st2.Won++
		st2.Points += 2
		st1.Lost++
	default:
		st1.Tied++
		st2.Tied++
		st1.Points++
		st2.Points++
	}

	st1.RunsFor += runs1
	st1.BallsFaced += balls1
	st1.RunsAgainst += runs2
	st1.BallsBowled += balls2

	st2.RunsFor += runs2
	st2.BallsFaced += balls2
	st2.RunsAgainst += runs1
	st2.BallsBowled += balls1

	st1.RecomputeNRR()
	st2.RecomputeNRR()
	return nil
}

// Standings returns the points table ranked by points then net run rate,
// with 1-indexed positions stamped on.
func (s *Service) Standings() ([]TeamStanding, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].NetRunRate > rows[j].NetRunRate
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows, nil
}
