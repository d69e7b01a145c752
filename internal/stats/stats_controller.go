package stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PatelKrish-16/crease/internal/engine"
	"github.com/PatelKrish-16/crease/pkg/responses"
)

// StatsController exposes the aggregation engine over HTTP.
type StatsController struct {
	agg  *Aggregator
	repo StatsRepository
}

func NewStatsController(agg *Aggregator, repo StatsRepository) *StatsController {
	return &StatsController{agg: agg, repo: repo}
}

// ProcessMatch godoc
// @Summary Process one match's statistics
// @Description Folds the match's scorecards into the cumulative player statistics. Safe to call repeatedly; pass force=true to bypass the duplicate-notification window.
// @Tags Stats
// @Produce json
// @Param match_id path int true "Match ID"
// @Param force query bool false "Reprocess even inside the suppression window"
// @Success 200 {object} responses.SuccessResponse{data=ProcessOutcome}
// @Failure 400 {object} responses.ErrorResponse "Invalid match ID"
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /stats/matches/{match_id}/process [post]
// @Security BearerAuth
func (sc *StatsController) ProcessMatch(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("match_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid match ID format")
		return
	}
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	outcome, err := sc.agg.Process(uint(matchID), force)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			responses.NotFound(c, "Match")
			return
		}
		responses.InternalServerError(c, "Failed to process match: "+err.Error())
		return
	}

	message := "Match statistics processed"
	switch {
	case outcome.Suppressed:
		message = "Duplicate notification absorbed; statistics unchanged"
	case !outcome.Eligible:
		message = "Match is not eligible for statistics; nothing changed"
	}
	responses.SendSuccess(c, http.StatusOK, message, outcome)
}

// Recalculate godoc
// @Summary Rebuild all statistics from scratch
// @Description Clears the statistics tables and reprocesses every completed match. Returns 409 if a recalculation or rollover is already running.
// @Tags Stats
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=RecalcSummary}
// @Failure 409 {object} responses.ErrorResponse "Engine busy"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /stats/recalculate [post]
// @Security BearerAuth
func (sc *StatsController) Recalculate(c *gin.Context) {
	summary, err := sc.agg.RecalculateAll()
	if err != nil {
		if errors.Is(err, engine.ErrLockHeld) {
			responses.Conflict(c, "A recalculation or rollover is already in progress")
			return
		}
		responses.InternalServerError(c, "Recalculation failed: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Statistics recalculated", summary)
}

// GetPlayerStats godoc
// @Summary List player statistics
// @Description All players' cumulative season statistics, most runs first
// @Tags Stats
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]PlayerStat}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /stats/players [get]
func (sc *StatsController) GetPlayerStats(c *gin.Context) {
	stats, err := sc.agg.AllPlayerStats()
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve player stats: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player statistics retrieved successfully", stats)
}

// GetPlayerStat godoc
// @Summary Get one player's statistics
// @Tags Stats
// @Produce json
// @Param player_id path string true "Player ID"
// @Success 200 {object} responses.SuccessResponse{data=PlayerStat}
// @Failure 404 {object} responses.ErrorResponse "Player not found"
// @Router /stats/players/{player_id} [get]
func (sc *StatsController) GetPlayerStat(c *gin.Context) {
	stat, err := sc.repo.GetPlayerStat(c.Param("player_id"))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve player stats: "+err.Error())
		return
	}
	if stat == nil {
		responses.NotFound(c, "Player")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player statistics retrieved successfully", stat)
}

// GetTopPerformers godoc
// @Summary Tournament leaderboards
// @Description Top run scorers, wicket takers, and qualified best average / strike rate / economy lists
// @Tags Stats
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=TopPerformers}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /stats/top-performers [get]
func (sc *StatsController) GetTopPerformers(c *gin.Context) {
	top, err := sc.agg.TopPerformers()
	if err != nil {
		responses.InternalServerError(c, "Failed to compute top performers: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Top performers retrieved successfully", top)
}
