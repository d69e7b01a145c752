package match

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PatelKrish-16/crease/config"
	"github.com/PatelKrish-16/crease/pkg/cricket"
	"github.com/PatelKrish-16/crease/pkg/responses"
)

// EngineNotifier receives match lifecycle events. Satisfied by the stats
// aggregator: an upsert triggers (idempotent) processing of that match, a
// delete triggers a full recalculation.
type EngineNotifier interface {
	MatchUpserted(matchID uint) error
	MatchDeleted(matchID uint) error
}

// MatchController handles API requests related to fixtures and results.
type MatchController struct {
	repo     MatchRepository
	notifier EngineNotifier
	config   *config.Config
}

func NewMatchController(repo MatchRepository, notifier EngineNotifier, cfg *config.Config) *MatchController {
	return &MatchController{repo: repo, notifier: notifier, config: cfg}
}

// --- DTOs ---

type CreateMatchRequest struct {
	Team1       string    `json:"team1" binding:"required,min=2,max=100"`
	Team2       string    `json:"team2" binding:"required,min=2,max=100"`
	MatchType   MatchType `json:"match_type" binding:"omitempty,oneof=knockout qualifier1 qualifier2 eliminator final"`
	SeasonID    string    `json:"season_id" binding:"omitempty,max=50"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type TeamScoreRequest struct {
	Runs    int    `json:"runs" binding:"min=0"`
	Wickets int    `json:"wickets" binding:"min=0,max=10"`
	Overs   string `json:"overs" binding:"required"`
}

type UpdateMatchRequest struct {
	Team1       string     `json:"team1" binding:"omitempty,min=2,max=100"`
	Team2       string     `json:"team2" binding:"omitempty,min=2,max=100"`
	MatchType   *MatchType `json:"match_type" binding:"omitempty,oneof=knockout qualifier1 qualifier2 eliminator final"`
	ScheduledAt *time.Time `json:"scheduled_at"`

	Team1Score       *TeamScoreRequest `json:"team1_score"`
	Team2Score       *TeamScoreRequest `json:"team2_score"`
	BattingScorecard BattingScorecard  `json:"batting_scorecard"`
	BowlingScorecard BowlingScorecard  `json:"bowling_scorecard"`
	ResultSummary    string            `json:"result_summary" binding:"omitempty,max=255"`
}

type CompleteMatchRequest struct {
	Team1Score       TeamScoreRequest `json:"team1_score" binding:"required"`
	Team2Score       TeamScoreRequest `json:"team2_score" binding:"required"`
	BattingScorecard BattingScorecard `json:"batting_scorecard"`
	BowlingScorecard BowlingScorecard `json:"bowling_scorecard"`
	ResultSummary    string           `json:"result_summary" binding:"omitempty,max=255"`
}

func teamScoreFromRequest(req *TeamScoreRequest) (*TeamScore, error) {
	if _, err := cricket.BallsFromOvers(req.Overs); err != nil {
		return nil, err
	}
	return &TeamScore{Runs: req.Runs, Wickets: req.Wickets, Overs: req.Overs}, nil
}

// --- Handlers ---

// CreateMatch godoc
// @Summary Schedule a new match
// @Description Admin can schedule a fixture between two teams
// @Tags Matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Match creation request"
// @Success 201 {object} responses.SuccessResponse{data=Match}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /matches [post]
// @Security BearerAuth
func (mc *MatchController) CreateMatch(c *gin.Context) {
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	if req.Team1 == req.Team2 {
		responses.BadRequest(c, "A team cannot play against itself")
		return
	}

	seasonID := req.SeasonID
	if seasonID == "" {
		seasonID = mc.config.App.SeasonID
	}

	m := Match{
		Team1:       req.Team1,
		Team2:       req.Team2,
		Status:      StatusMatchUpcoming,
		MatchType:   req.MatchType,
		SeasonID:    seasonID,
		ScheduledAt: req.ScheduledAt,
	}
	if m.MatchType == "" {
		m.MatchType = MatchTypeKnockout
	}

	if err := mc.repo.CreateMatch(&m); err != nil {
		responses.InternalServerError(c, "Failed to create match: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Match scheduled successfully", m)
}

// GetMatches godoc
// @Summary List matches
// @Description Get matches with optional status, type and season filters
// @Tags Matches
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Param status query string false "Filter by status (upcoming|live|completed)"
// @Param match_type query string false "Filter by match type"
// @Param season_id query string false "Filter by season"
// @Success 200 {object} responses.PaginatedResponse{data=[]Match}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	filters := map[string]interface{}{}
	if status := c.Query("status"); status != "" {
		filters["status = ?"] = status
	}
	if matchType := c.Query("match_type"); matchType != "" {
		filters["match_type = ?"] = matchType
	}
	if seasonID := c.Query("season_id"); seasonID != "" {
		filters["season_id = ?"] = seasonID
	}

	matches, total, err := mc.repo.GetMatches(filters, page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve matches: "+err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Matches retrieved successfully", matches, total, page, pageSize)
}

// GetMatchByID godoc
// @Summary Get a match by ID
// @Tags Matches
// @Produce json
// @Param match_id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Router /matches/{match_id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match: "+err.Error())
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Match retrieved successfully", m)
}

// UpdateMatch godoc
// @Summary Update a match
// @Description Scorer or admin can edit a fixture, including its scorecards. Editing a completed match reprocesses its statistics.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match_id path int true "Match ID"
// @Param match body UpdateMatchRequest true "Match update request"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /matches/{match_id} [put]
// @Security BearerAuth
func (mc *MatchController) UpdateMatch(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req UpdateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match: "+err.Error())
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	if req.Team1 != "" {
		m.Team1 = req.Team1
	}
	if req.Team2 != "" {
		m.Team2 = req.Team2
	}
	if m.Team1 == m.Team2 {
		responses.BadRequest(c, "A team cannot play against itself")
		return
	}
	if req.MatchType != nil {
		m.MatchType = *req.MatchType
	}
	if req.ScheduledAt != nil {
		m.ScheduledAt = *req.ScheduledAt
	}
	if req.Team1Score != nil {
		score, err := teamScoreFromRequest(req.Team1Score)
		if err != nil {
			responses.BadRequest(c, "Invalid team1 overs: "+err.Error())
			return
		}
		m.Team1Score = score
	}
	if req.Team2Score != nil {
		score, err := teamScoreFromRequest(req.Team2Score)
		if err != nil {
			responses.BadRequest(c, "Invalid team2 overs: "+err.Error())
			return
		}
		m.Team2Score = score
	}
	if req.BattingScorecard != nil {
		m.BattingScorecard = req.BattingScorecard
	}
	if req.BowlingScorecard != nil {
		m.BowlingScorecard = req.BowlingScorecard
	}
	if req.ResultSummary != "" {
		m.ResultSummary = req.ResultSummary
	}

	if err := mc.repo.UpdateMatch(m); err != nil {
		responses.InternalServerError(c, "Failed to update match: "+err.Error())
		return
	}

	mc.notifyUpserted(m)
	responses.SendSuccess(c, http.StatusOK, "Match updated successfully", m)
}

// StartMatch godoc
// @Summary Mark a match as live
// @Tags Matches
// @Produce json
// @Param match_id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Router /matches/{match_id}/start [post]
// @Security BearerAuth
func (mc *MatchController) StartMatch(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	if err := mc.repo.UpdateMatchStatus(matchID, StatusMatchLive); err != nil {
		responses.NotFound(c, "Match")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Match is now live", nil)
}

// CompleteMatch godoc
// @Summary Record a match result
// @Description Scorer or admin submits the final scores and scorecards. The match is marked completed and its statistics are processed.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match_id path int true "Match ID"
// @Param result body CompleteMatchRequest true "Final result"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /matches/{match_id}/complete [post]
// @Security BearerAuth
func (mc *MatchController) CompleteMatch(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	var req CompleteMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match: "+err.Error())
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	team1Score, err := teamScoreFromRequest(&req.Team1Score)
	if err != nil {
		responses.BadRequest(c, "Invalid team1 overs: "+err.Error())
		return
	}
	team2Score, err := teamScoreFromRequest(&req.Team2Score)
	if err != nil {
		responses.BadRequest(c, "Invalid team2 overs: "+err.Error())
		return
	}

	m.Status = StatusMatchCompleted
	m.Team1Score = team1Score
	m.Team2Score = team2Score
	m.BattingScorecard = req.BattingScorecard
	m.BowlingScorecard = req.BowlingScorecard
	m.ResultSummary = req.ResultSummary

	if err := mc.repo.UpdateMatch(m); err != nil {
		responses.InternalServerError(c, "Failed to save match result: "+err.Error())
		return
	}

	mc.notifyUpserted(m)
	responses.SendSuccess(c, http.StatusOK, "Match result recorded", m)
}

// DeleteMatch godoc
// @Summary Delete a match
// @Description Admin removes a fixture. If the match had been processed, statistics are fully recalculated.
// @Tags Matches
// @Produce json
// @Param match_id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /matches/{match_id} [delete]
// @Security BearerAuth
func (mc *MatchController) DeleteMatch(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}

	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match: "+err.Error())
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	if err := mc.repo.DeleteMatch(matchID); err != nil {
		responses.InternalServerError(c, "Failed to delete match: "+err.Error())
		return
	}

	if mc.notifier != nil {
		if err := mc.notifier.MatchDeleted(matchID); err != nil {
			log.Printf("WARNING: stats recalculation after deleting match %d failed: %v", matchID, err)
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Match deleted successfully", nil)
}

// notifyUpserted hands the saved match to the stats engine. Processing is
// idempotent, so a failure here is logged and left for the next notification
// or a manual recalculation rather than failing the save.
func (mc *MatchController) notifyUpserted(m *Match) {
	if mc.notifier == nil || m.Status != StatusMatchCompleted {
		return
	}
	if err := mc.notifier.MatchUpserted(m.ID); err != nil {
		log.Printf("WARNING: stats processing for match %d failed: %v", m.ID, err)
	}
}

func parseMatchID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("match_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid match ID format")
		return 0, false
	}
	return uint(id), true
}
