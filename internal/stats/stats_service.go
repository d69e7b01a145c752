package stats

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/PatelKrish-16/crease/internal/match"
)

// ErrMatchNotFound is returned when processing is requested for a match id
// that does not exist in the store.
var ErrMatchNotFound = errors.New("match not found")

// lockName is the advisory lock shared by every exclusive engine operation.
const lockName = "stats_engine"

// Locker is the advisory-lock surface the aggregator needs for exclusive
// operations (satisfied by engine.LockManager).
type Locker interface {
	Acquire(name string) (string, error)
	Release(name, holder string) error
}

// StandingsApplier is the slice of the standings calculator the aggregator
// drives after processing a match (satisfied by standings.Service).
type StandingsApplier interface {
	ApplyMatch(m *match.Match) error
	RebuildStandings() error
}

// Aggregator folds match scorecards into cumulative player statistics.
// All stat mutation in the application goes through this one component, which
// is what keeps the "count a match once per player" invariant enforceable.
type Aggregator struct {
	matchRepo      match.MatchRepository
	repo           StatsRepository
	locks          Locker
	standings      StandingsApplier
	suppressWindow time.Duration

	mu       sync.Mutex
	inflight map[uint]*sync.Mutex // serializes processing per match id
}

// NewAggregator creates the stats aggregator. standings may be nil in tests
// that only exercise player statistics.
func NewAggregator(matchRepo match.MatchRepository, repo StatsRepository, locks Locker, standings StandingsApplier, suppressWindow time.Duration) *Aggregator {
	if suppressWindow <= 0 {
		suppressWindow = 60 * time.Second
	}
	return &Aggregator{
		matchRepo:      matchRepo,
		repo:           repo,
		locks:          locks,
		standings:      standings,
		suppressWindow: suppressWindow,
		inflight:       make(map[uint]*sync.Mutex),
	}
}

// ProcessOutcome reports what a single Process call did.
type ProcessOutcome struct {
	MatchID        uint   `json:"match_id"`
	Eligible       bool   `json:"eligible"`
	Suppressed     bool   `json:"suppressed"`
	FirstTime      bool   `json:"first_time"` // no marker existed before this call
	PlayersUpdated int    `json:"players_updated"`
	Warning        string `json:"warning,omitempty"`

	processed *match.Match
}

// RecalcSummary reports the result of a full recalculation.
type RecalcSummary struct {
	ProcessedMatches      int   `json:"processed_matches"`
	SkippedMatches        int   `json:"skipped_matches"`
	TotalPlayers          int64 `json:"total_players"`
	PlayersWithMatches    int64 `json:"players_with_matches"`
	PlayersWithoutMatches int64 `json:"players_without_matches"`
}

// Process folds one match into the cumulative statistics. It is safe to call
// repeatedly: the match's prior contribution rows are replaced wholesale and
// the affected players rebuilt, so edits never double count. A repeated
// notification for an unchanged match inside the suppression window is
// absorbed unless force is set.
func (a *Aggregator) Process(matchID uint, force bool) (*ProcessOutcome, error) {
	mu := a.matchMutex(matchID)
	mu.Lock()
	defer mu.Unlock()

	m, err := a.matchRepo.GetMatchByID(matchID)
	if err != nil {
		return nil, fmt.Errorf("reading match %d: %w", matchID, err)
	}
	if m == nil {
		return nil, ErrMatchNotFound
	}
	return a.processRecord(m, force)
}

// processRecord is the single mutation path shared by Process and
// RecalculateAll. The caller must hold the per-match mutex or the engine lock.
func (a *Aggregator) processRecord(m *match.Match, force bool) (*ProcessOutcome, error) {
	outcome := &ProcessOutcome{MatchID: m.ID, processed: m}

	if !m.EligibleForStats() {
		outcome.Warning = "match is not eligible for stats processing (must be completed with scorecards and both scores)"
		return outcome, nil
	}
	outcome.Eligible = true

	marker, err := a.repo.GetMarker(m.ID)
	if err != nil {
		return nil, fmt.Errorf("reading processed marker for match %d: %w", m.ID, err)
	}
	outcome.FirstTime = marker == nil

	if marker != nil && !force &&
		marker.ProcessKey == m.ProcessKey() &&
		time.Since(marker.ProcessedAt) < a.suppressWindow {
		outcome.Suppressed = true
		return outcome, nil
	}

	// Union of players previously credited for this match and players in the
	// current scorecards: both sets need their cumulative record rebuilt.
	previous, err := a.repo.GetContributionsByMatch(m.ID)
	if err != nil {
		return nil, fmt.Errorf("reading prior contributions for match %d: %w", m.ID, err)
	}

	contributions := Normalize(m)

	affected := make(map[string]bool)
	for _, c := range previous {
		affected[c.PlayerID] = true
	}
	for _, c := range contributions {
		affected[c.PlayerID] = true
	}

	if err := a.repo.ReplaceMatchContributions(m.ID, contributions); err != nil {
		return nil, fmt.Errorf("replacing contributions for match %d: %w", m.ID, err)
	}

	updated, err := a.rebuildPlayers(keys(affected))
	if err != nil {
		return nil, fmt.Errorf("rebuilding player stats for match %d: %w", m.ID, err)
	}
	outcome.PlayersUpdated = updated

	if err := a.repo.UpsertMarker(&ProcessedMatch{
		MatchID:     m.ID,
		ProcessKey:  m.ProcessKey(),
		ProcessedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("writing processed marker for match %d: %w", m.ID, err)
	}

	return outcome, nil
}

// rebuildPlayers recomputes each listed player's cumulative record from
// their contribution rows. Players left with no contributions are removed.
func (a *Aggregator) rebuildPlayers(playerIDs []string) (int, error) {
	rows, err := a.repo.GetContributionsByPlayers(playerIDs)
	if err != nil {
		return 0, err
	}

	byPlayer := make(map[string][]StatContribution)
	for _, row := range rows {
		byPlayer[row.PlayerID] = append(byPlayer[row.PlayerID], row)
	}

	updated := 0
	var orphaned []string
	for _, playerID := range playerIDs {
		contribs := byPlayer[playerID]
		if len(contribs) == 0 {
			orphaned = append(orphaned, playerID)
			continue
		}

		stat := foldContributions(playerID, contribs)

		existing, err := a.repo.GetPlayerStat(playerID)
		if err != nil {
			return updated, err
		}
		if existing != nil {
			stat.ID = existing.ID
			stat.CreatedAt = existing.CreatedAt
		}
		if err := a.repo.SavePlayerStat(stat); err != nil {
			return updated, err
		}
		updated++
	}

	if err := a.repo.DeletePlayerStats(orphaned); err != nil {
		return updated, err
	}
	return updated, nil
}

// foldContributions sums a player's per-match rows into a cumulative record.
// Each row is one match, so the matches counter is simply the row count:
// a player who batted and bowled in a match still has exactly one row.
func foldContributions(playerID string, contribs []StatContribution) *PlayerStat {
	stat := &PlayerStat{PlayerID: playerID}
	hasBest := false

	for _, c := range contribs {
		stat.Matches++

		if c.Batted {
			stat.Innings++
			if !c.Out {
				stat.NotOuts++
			}
			stat.Runs += c.Runs
			stat.Balls += c.Balls
			stat.Fours += c.Fours
			stat.Sixes += c.Sixes
			if c.Runs > stat.HighestScore {
				stat.HighestScore = c.Runs
			}
		}

		if c.Bowled {
			stat.Wickets += c.Wickets
			stat.BowlingRuns += c.RunsConceded
			stat.BallsBowled += c.BallsBowled
			if c.Wickets > 0 || c.BallsBowled > 0 {
				if !hasBest || BetterBowling(c.Wickets, c.RunsConceded, stat.BestBowlingWickets, stat.BestBowlingRuns) {
					stat.BestBowlingWickets = c.Wickets
					stat.BestBowlingRuns = c.RunsConceded
					hasBest = true
				}
			}
		}

		// Most recent appearance wins for display name and team.
		stat.Name = c.Name
		stat.Team = c.Team
	}

	stat.Recompute()
	return stat
}

// RecalculateAll clears every player statistic, contribution and marker, then
// reprocesses every completed match from scratch. It is the authoritative
// repair operation: running it twice in a row yields identical output. A
// single malformed match is logged and skipped rather than aborting the run.
func (a *Aggregator) RecalculateAll() (*RecalcSummary, error) {
	holder, err := a.locks.Acquire(lockName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.locks.Release(lockName, holder); err != nil {
			log.Printf("WARNING: failed to release engine lock: %v", err)
		}
	}()

	if err := a.repo.DeleteAllPlayerStats(); err != nil {
		return nil, fmt.Errorf("clearing player stats: %w", err)
	}
	if err := a.repo.DeleteAllContributions(); err != nil {
		return nil, fmt.Errorf("clearing contributions: %w", err)
	}
	if err := a.repo.DeleteAllMarkers(); err != nil {
		return nil, fmt.Errorf("clearing processed markers: %w", err)
	}

	matches, err := a.matchRepo.GetCompletedMatches()
	if err != nil {
		return nil, fmt.Errorf("listing completed matches: %w", err)
	}

	summary := &RecalcSummary{}
	for i := range matches {
		m := &matches[i]
		outcome, err := a.processRecord(m, true)
		if err != nil {
			log.Printf("WARNING: skipping match %d during recalculation: %v", m.ID, err)
			summary.SkippedMatches++
			continue
		}
		if !outcome.Eligible {
			summary.SkippedMatches++
			continue
		}
		summary.ProcessedMatches++
	}

	total, withMatches, err := a.repo.CountPlayerStats()
	if err != nil {
		return nil, fmt.Errorf("counting player stats: %w", err)
	}
	summary.TotalPlayers = total
	summary.PlayersWithMatches = withMatches
	summary.PlayersWithoutMatches = total - withMatches

	return summary, nil
}

// AllPlayerStats returns every cumulative player record, best batting first.
func (a *Aggregator) AllPlayerStats() ([]PlayerStat, error) {
	return a.repo.GetAllPlayerStats()
}

// TopPerformers is the leaderboard payload for the stats dashboard.
type TopPerformers struct {
	TopRunScorers   []PlayerStat `json:"top_run_scorers"`
	TopWicketTakers []PlayerStat `json:"top_wicket_takers"`
	BestBatsmen     []PlayerStat `json:"best_batsmen"`  // min 3 innings, by average
	BestBowlers     []PlayerStat `json:"best_bowlers"`  // min 5 overs, wickets then economy
}

const leaderboardSize = 10

// minimum qualification thresholds for the averaged leaderboards
const (
	bestBatsmanMinInnings = 3
	bestBowlerMinBalls    = 30 // 5 overs
)

// TopPerformers computes the four dashboard leaderboards.
func (a *Aggregator) TopPerformers() (*TopPerformers, error) {
	all, err := a.repo.GetAllPlayerStats()
	if err != nil {
		return nil, err
	}

	runScorers := append([]PlayerStat(nil), all...)
	sort.SliceStable(runScorers, func(i, j int) bool {
		return runScorers[i].Runs > runScorers[j].Runs
	})

	wicketTakers := append([]PlayerStat(nil), all...)
	sort.SliceStable(wicketTakers, func(i, j int) bool {
		if wicketTakers[i].Wickets != wicketTakers[j].Wickets {
			return wicketTakers[i].Wickets > wicketTakers[j].Wickets
		}
		return wicketTakers[i].Economy < wicketTakers[j].Economy
	})

	var batsmen []PlayerStat
	for _, s := range all {
		if s.Innings >= bestBatsmanMinInnings {
			batsmen = append(batsmen, s)
		}
	}
	sort.SliceStable(batsmen, func(i, j int) bool {
		return batsmen[i].Average > batsmen[j].Average
	})

	var bowlers []PlayerStat
	for _, s := range all {
		if s.BallsBowled >= bestBowlerMinBalls {
			bowlers = append(bowlers, s)
		}
	}
	sort.SliceStable(bowlers, func(i, j int) bool {
		if bowlers[i].Wickets != bowlers[j].Wickets {
			return bowlers[i].Wickets > bowlers[j].Wickets
		}
		return bowlers[i].Economy < bowlers[j].Economy
	})

	return &TopPerformers{
		TopRunScorers:   topN(runScorers, leaderboardSize),
		TopWicketTakers: topN(wicketTakers, leaderboardSize),
		BestBatsmen:     topN(batsmen, leaderboardSize),
		BestBowlers:     topN(bowlers, leaderboardSize),
	}, nil
}

// MatchUpserted is the handler for "a match was completed or its scorecard
// edited". It processes the match and keeps the points table in step: a
// first-time eligible league match gets the cheap single-match standings
// delta; a reprocessed one forces a standings rebuild since its old result
// is already folded in.
func (a *Aggregator) MatchUpserted(matchID uint) error {
	outcome, err := a.Process(matchID, false)
	if err != nil {
		return err
	}
	if !outcome.Eligible || outcome.Suppressed || a.standings == nil {
		return nil
	}

	m := outcome.processed
	if outcome.FirstTime {
		if !m.MatchType.IsLeague() {
			return nil
		}
		return a.standings.ApplyMatch(m)
	}
	// A reprocess may be an edit that changed the result or even the match
	// type, and the old result is already folded into the table. Rebuild
	// regardless of what the match is now.
	return a.standings.RebuildStandings()
}

// MatchDeleted is the handler for "a match was removed from the store".
// Incremental subtraction is unsupported; correctness comes from rebuilding
// both aggregates in full.
func (a *Aggregator) MatchDeleted(matchID uint) error {
	if _, err := a.RecalculateAll(); err != nil {
		return err
	}
	if a.standings == nil {
		return nil
	}
	return a.standings.RebuildStandings()
}

func (a *Aggregator) matchMutex(id uint) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	mu, ok := a.inflight[id]
	if !ok {
		mu = &sync.Mutex{}
		a.inflight[id] = mu
	}
	return mu
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func topN(stats []PlayerStat, n int) []PlayerStat {
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
