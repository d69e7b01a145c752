package registration

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PatelKrish-16/crease/config"
	"github.com/PatelKrish-16/crease/pkg/responses"
)

// RegistrationController handles player sign-up requests.
type RegistrationController struct {
	repo   RegistrationRepository
	config *config.Config
}

func NewRegistrationController(repo RegistrationRepository, cfg *config.Config) *RegistrationController {
	return &RegistrationController{repo: repo, config: cfg}
}

// --- DTOs ---

type CreateRegistrationRequest struct {
	FullName     string     `json:"full_name" binding:"required,min=2,max=100"`
	Phone        string     `json:"phone" binding:"omitempty,min=7,max=20"`
	Role         PlayerRole `json:"role" binding:"omitempty,oneof=batsman bowler all_rounder wicket_keeper"`
	BattingStyle string     `json:"batting_style" binding:"omitempty,max=50"`
	BowlingStyle string     `json:"bowling_style" binding:"omitempty,max=50"`
	PhotoURL     string     `json:"photo_url" binding:"omitempty,url,max=255"`
}

type UpdateRegistrationRequest struct {
	FullName     string     `json:"full_name" binding:"omitempty,min=2,max=100"`
	Phone        string     `json:"phone" binding:"omitempty,min=7,max=20"`
	Role         PlayerRole `json:"role" binding:"omitempty,oneof=batsman bowler all_rounder wicket_keeper"`
	BattingStyle string     `json:"batting_style" binding:"omitempty,max=50"`
	BowlingStyle string     `json:"bowling_style" binding:"omitempty,max=50"`
	PhotoURL     string     `json:"photo_url" binding:"omitempty,url,max=255"`
	Paid         *bool      `json:"paid"`
}

// --- Handlers ---

// CreateRegistration godoc
// @Summary Register a player
// @Description Sign a player up for the current season
// @Tags Registrations
// @Accept json
// @Produce json
// @Param registration body CreateRegistrationRequest true "Registration request"
// @Success 201 {object} responses.SuccessResponse{data=PlayerRegistration}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /registrations [post]
func (rc *RegistrationController) CreateRegistration(c *gin.Context) {
	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	reg := PlayerRegistration{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         req.Role,
		BattingStyle: req.BattingStyle,
		BowlingStyle: req.BowlingStyle,
		PhotoURL:     req.PhotoURL,
		SeasonID:     rc.config.App.SeasonID,
	}
	if reg.Role == "" {
		reg.Role = RoleBatsman
	}

	if err := rc.repo.CreateRegistration(&reg); err != nil {
		responses.InternalServerError(c, "Failed to create registration: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Player registered successfully", reg)
}

// GetRegistrations godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Param season_id query string false "Filter by season"
// @Success 200 {object} responses.PaginatedResponse{data=[]PlayerRegistration}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /registrations [get]
// @Security BearerAuth
func (rc *RegistrationController) GetRegistrations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	regs, total, err := rc.repo.GetRegistrations(c.Query("season_id"), page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve registrations: "+err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Registrations retrieved successfully", regs, total, page, pageSize)
}

// GetRegistrationByID godoc
// @Summary Get a registration by ID
// @Tags Registrations
// @Produce json
// @Param registration_id path int true "Registration ID"
// @Success 200 {object} responses.SuccessResponse{data=PlayerRegistration}
// @Failure 404 {object} responses.ErrorResponse "Registration not found"
// @Router /registrations/{registration_id} [get]
// @Security BearerAuth
func (rc *RegistrationController) GetRegistrationByID(c *gin.Context) {
	regID, ok := parseRegistrationID(c)
	if !ok {
		return
	}

	reg, err := rc.repo.GetRegistrationByID(regID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve registration: "+err.Error())
		return
	}
	if reg == nil {
		responses.NotFound(c, "Registration")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Registration retrieved successfully", reg)
}

// UpdateRegistration godoc
// @Summary Update a registration
// @Description Admin can correct registration details or mark the fee as paid
// @Tags Registrations
// @Accept json
// @Produce json
// @Param registration_id path int true "Registration ID"
// @Param registration body UpdateRegistrationRequest true "Registration update request"
// @Success 200 {object} responses.SuccessResponse{data=PlayerRegistration}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 404 {object} responses.ErrorResponse "Registration not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /registrations/{registration_id} [put]
// @Security BearerAuth
func (rc *RegistrationController) UpdateRegistration(c *gin.Context) {
	regID, ok := parseRegistrationID(c)
	if !ok {
		return
	}

	var req UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	reg, err := rc.repo.GetRegistrationByID(regID)
	if err != nil || reg == nil {
		responses.NotFound(c, "Registration")
		return
	}

	if req.FullName != "" {
		reg.FullName = req.FullName
	}
	if req.Phone != "" {
		reg.Phone = req.Phone
	}
	if req.Role != "" {
		reg.Role = req.Role
	}
	if req.BattingStyle != "" {
		reg.BattingStyle = req.BattingStyle
	}
	if req.BowlingStyle != "" {
		reg.BowlingStyle = req.BowlingStyle
	}
	if req.PhotoURL != "" {
		reg.PhotoURL = req.PhotoURL
	}
	if req.Paid != nil {
		reg.Paid = *req.Paid
	}

	if err := rc.repo.UpdateRegistration(reg); err != nil {
		responses.InternalServerError(c, "Failed to update registration: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Registration updated successfully", reg)
}

// DeleteRegistration godoc
// @Summary Delete a registration
// @Tags Registrations
// @Produce json
// @Param registration_id path int true "Registration ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Registration not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /registrations/{registration_id} [delete]
// @Security BearerAuth
func (rc *RegistrationController) DeleteRegistration(c *gin.Context) {
	regID, ok := parseRegistrationID(c)
	if !ok {
		return
	}

	reg, err := rc.repo.GetRegistrationByID(regID)
	if err != nil || reg == nil {
		responses.NotFound(c, "Registration")
		return
	}

	if err := rc.repo.DeleteRegistration(regID); err != nil {
		responses.InternalServerError(c, "Failed to delete registration: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Registration deleted successfully", nil)
}

func parseRegistrationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("registration_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid registration ID format")
		return 0, false
	}
	return uint(id), true
}
