package career

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PatelKrish-16/crease/config"
	"github.com/PatelKrish-16/crease/internal/engine"
	"github.com/PatelKrish-16/crease/pkg/responses"
)

// CareerController exposes the career ledger and season rollover over HTTP.
type CareerController struct {
	service *Service
	config  *config.Config
}

func NewCareerController(service *Service, cfg *config.Config) *CareerController {
	return &CareerController{service: service, config: cfg}
}

type RolloverRequest struct {
	SeasonID    string `json:"season_id" binding:"omitempty,max=50"`
	NewSeasonID string `json:"new_season_id" binding:"required,max=50"`
}

// GetCareers godoc
// @Summary List career records
// @Description All players' cross-season career totals, most runs first
// @Tags Careers
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]CareerStat}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /career [get]
func (cc *CareerController) GetCareers(c *gin.Context) {
	careers, err := cc.service.Careers()
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve careers: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Career records retrieved successfully", careers)
}

// GetCareer godoc
// @Summary Get one player's career record
// @Description Look up by phone number or player name; names are matched against registrations
// @Tags Careers
// @Produce json
// @Param identity path string true "Phone number or player name"
// @Success 200 {object} responses.SuccessResponse{data=CareerStat}
// @Failure 404 {object} responses.ErrorResponse "No career record found"
// @Router /career/{identity} [get]
func (cc *CareerController) GetCareer(c *gin.Context) {
	stat, err := cc.service.CareerFor(c.Param("identity"))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve career: "+err.Error())
		return
	}
	if stat == nil {
		responses.NotFound(c, "Career record")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Career record retrieved successfully", stat)
}

// Rollover godoc
// @Summary Roll the season over
// @Description Merges the season's statistics into career records, archives the season's data, and clears the season tables. Aborts without changing anything if the archive cannot be verified.
// @Tags Careers
// @Accept json
// @Produce json
// @Param rollover body RolloverRequest true "Rollover request"
// @Success 200 {object} responses.SuccessResponse{data=RolloverSummary}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 409 {object} responses.ErrorResponse "Engine busy"
// @Failure 500 {object} responses.ErrorResponse "Rollover failed; season data untouched"
// @Router /seasons/rollover [post]
// @Security BearerAuth
func (cc *CareerController) Rollover(c *gin.Context) {
	var req RolloverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	seasonID := req.SeasonID
	if seasonID == "" {
		seasonID = cc.config.App.SeasonID
	}
	if req.NewSeasonID == seasonID {
		responses.BadRequest(c, "New season must differ from the season being closed")
		return
	}

	summary, err := cc.service.Rollover(seasonID, req.NewSeasonID)
	if err != nil {
		if errors.Is(err, engine.ErrLockHeld) {
			responses.Conflict(c, "A recalculation or rollover is already in progress")
			return
		}
		if errors.Is(err, ErrBackupFailed) {
			responses.InternalServerError(c, "Rollover aborted: "+err.Error())
			return
		}
		responses.InternalServerError(c, "Rollover failed: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Season rolled over successfully", summary)
}

// Restore godoc
// @Summary Restore an archived season
// @Description Reinserts every row archived under the given rollover batch back into the live tables
// @Tags Careers
// @Produce json
// @Param batch_id path string true "Archive batch ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "No archive found"
// @Failure 409 {object} responses.ErrorResponse "Engine busy"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /seasons/restore/{batch_id} [post]
// @Security BearerAuth
func (cc *CareerController) Restore(c *gin.Context) {
	restored, err := cc.service.Restore(c.Param("batch_id"))
	if err != nil {
		if errors.Is(err, engine.ErrLockHeld) {
			responses.Conflict(c, "A recalculation or rollover is already in progress")
			return
		}
		if errors.Is(err, ErrArchiveNotFound) {
			responses.NotFound(c, "Season archive")
			return
		}
		responses.InternalServerError(c, "Restore failed: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Season archive restored", gin.H{"restored_rows": restored})
}
