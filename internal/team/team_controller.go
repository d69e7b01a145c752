package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PatelKrish-16/crease/config"
	"github.com/PatelKrish-16/crease/pkg/responses"
)

// TeamController handles API requests related to teams and their rosters.
type TeamController struct {
	repo   TeamRepository
	config *config.Config
}

func NewTeamController(repo TeamRepository, cfg *config.Config) *TeamController {
	return &TeamController{repo: repo, config: cfg}
}

// --- DTOs ---

type CreateTeamRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Captain     string  `json:"captain" binding:"omitempty,max=100"`
	Logo        string  `json:"logo" binding:"omitempty,url,max=255"`
	SeasonID    string  `json:"season_id" binding:"omitempty,max=50"`
	PurseBudget float64 `json:"purse_budget" binding:"omitempty,min=0"`
}

type UpdateTeamRequest struct {
	Name        string   `json:"name" binding:"omitempty,min=2,max=100"`
	Captain     string   `json:"captain" binding:"omitempty,max=100"`
	Logo        string   `json:"logo" binding:"omitempty,url,max=255"`
	PurseBudget *float64 `json:"purse_budget" binding:"omitempty,min=0"`
}

type AddTeamPlayerRequest struct {
	RegistrationID uint    `json:"registration_id" binding:"required"`
	PlayerName     string  `json:"player_name" binding:"required,min=2,max=100"`
	SoldPrice      float64 `json:"sold_price" binding:"omitempty,min=0"`
}

// --- Handlers ---

// CreateTeam godoc
// @Summary Create a new team
// @Description Admin can register a team for the season
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team creation request"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 409 {object} responses.ErrorResponse "Team with this name already exists"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /teams [post]
// @Security BearerAuth
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	existing, _ := tc.repo.GetTeamByName(req.Name)
	if existing != nil {
		responses.Conflict(c, "Team with this name already exists")
		return
	}

	seasonID := req.SeasonID
	if seasonID == "" {
		seasonID = tc.config.App.SeasonID
	}

	team := Team{
		Name:        req.Name,
		Captain:     req.Captain,
		Logo:        req.Logo,
		SeasonID:    seasonID,
		PurseBudget: req.PurseBudget,
	}

	if err := tc.repo.CreateTeam(&team); err != nil {
		responses.InternalServerError(c, "Failed to create team: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// GetAllTeams godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Success 200 {object} responses.PaginatedResponse{data=[]Team}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	teams, total, err := tc.repo.GetAllTeams(page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve teams: "+err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Teams retrieved successfully", teams, total, page, pageSize)
}

// GetTeamByID godoc
// @Summary Get a team by ID
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", team)
}

// UpdateTeam godoc
// @Summary Update a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param team body UpdateTeamRequest true "Team update request"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Failure 409 {object} responses.ErrorResponse "Another team with this name already exists"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /teams/{team_id} [put]
// @Security BearerAuth
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	if req.Name != "" && req.Name != team.Name {
		existing, _ := tc.repo.GetTeamByName(req.Name)
		if existing != nil && existing.ID != team.ID {
			responses.Conflict(c, "Another team with this name already exists")
			return
		}
		team.Name = req.Name
	}
	if req.Captain != "" {
		team.Captain = req.Captain
	}
	if req.Logo != "" {
		team.Logo = req.Logo
	}
	if req.PurseBudget != nil {
		team.PurseBudget = *req.PurseBudget
	}

	if err := tc.repo.UpdateTeam(team); err != nil {
		responses.InternalServerError(c, "Failed to update team: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Team updated successfully", team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /teams/{team_id} [delete]
// @Security BearerAuth
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	if err := tc.repo.DeleteTeam(teamID); err != nil {
		responses.InternalServerError(c, "Failed to delete team: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Team deleted successfully", nil)
}

// AddTeamPlayer godoc
// @Summary Add a player to a team's roster
// @Description Records an auction purchase: the player joins the roster and the sold price is deducted from the purse
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param player body AddTeamPlayerRequest true "Roster entry"
// @Success 201 {object} responses.SuccessResponse{data=TeamPlayer}
// @Failure 400 {object} responses.ErrorResponse "Validation error or purse exceeded"
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /teams/{team_id}/players [post]
// @Security BearerAuth
func (tc *TeamController) AddTeamPlayer(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	var req AddTeamPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	if team.PurseBudget > 0 && team.PurseSpent+req.SoldPrice > team.PurseBudget {
		responses.BadRequest(c, "Sold price exceeds the team's remaining purse")
		return
	}

	player := TeamPlayer{
		TeamID:         teamID,
		RegistrationID: req.RegistrationID,
		PlayerName:     req.PlayerName,
		SoldPrice:      req.SoldPrice,
	}

	err = tc.repo.WithTransaction(func(txRepo TeamRepository) error {
		if err := txRepo.AddTeamPlayer(&player); err != nil {
			return err
		}
		team.PurseSpent += req.SoldPrice
		return txRepo.UpdateTeam(team)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to add player to roster: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Player added to roster", player)
}

// GetTeamPlayers godoc
// @Summary Get a team's roster
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=[]TeamPlayer}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Router /teams/{team_id}/players [get]
func (tc *TeamController) GetTeamPlayers(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	players, err := tc.repo.GetTeamPlayers(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve roster: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Roster retrieved successfully", players)
}

// RemoveTeamPlayer godoc
// @Summary Remove a player from a team's roster
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Param registration_id path int true "Registration ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /teams/{team_id}/players/{registration_id} [delete]
// @Security BearerAuth
func (tc *TeamController) RemoveTeamPlayer(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	registrationID, err := strconv.ParseUint(c.Param("registration_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid registration ID format")
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	if err := tc.repo.RemoveTeamPlayer(teamID, uint(registrationID)); err != nil {
		responses.InternalServerError(c, "Failed to remove player: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Player removed from roster", nil)
}

func parseTeamID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID format")
		return 0, false
	}
	return uint(id), true
}
