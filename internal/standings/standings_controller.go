package standings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PatelKrish-16/crease/pkg/responses"
)

// StandingsController exposes the points table over HTTP.
type StandingsController struct {
	service *Service
}

func NewStandingsController(service *Service) *StandingsController {
	return &StandingsController{service: service}
}

// GetStandings godoc
// @Summary Get the points table
// @Description Current league standings ordered by points then net run rate
// @Tags Standings
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]TeamStanding}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /standings [get]
func (sc *StandingsController) GetStandings(c *gin.Context) {
	table, err := sc.service.Standings()
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve standings: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Standings retrieved successfully", table)
}

// Recalculate godoc
// @Summary Rebuild the points table from scratch
// @Description Recomputes every team's record from the completed league matches. Registered teams with no results appear with zeroed rows.
// @Tags Standings
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]TeamStanding}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /standings/recalculate [post]
// @Security BearerAuth
func (sc *StandingsController) Recalculate(c *gin.Context) {
	if _, err := sc.service.Recalculate(); err != nil {
		responses.InternalServerError(c, "Standings recalculation failed: "+err.Error())
		return
	}

	table, err := sc.service.Standings()
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve standings: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Standings recalculated", table)
}
