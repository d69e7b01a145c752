package standings

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mw "github.com/PatelKrish-16/crease/internal/middleware"
	"github.com/PatelKrish-16/crease/pkg/rmiddleware"
)

// RegisterStandingsRoutes wires the points-table endpoints. The service is
// shared with the stats aggregator, so the router constructs it and passes
// it in.
func RegisterStandingsRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string, service *Service) {

	standingsController := NewStandingsController(service)

	router.GET("/standings", standingsController.GetStandings)

	adminStandings := router.Group("/standings")
	adminStandings.Use(mw.AuthMiddleware(jwtSecret, db), rmiddleware.AdminMiddleware())
	{
		adminStandings.POST("/recalculate", standingsController.Recalculate)
	}
}
