package stats

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mw "github.com/PatelKrish-16/crease/internal/middleware"
	"github.com/PatelKrish-16/crease/pkg/rmiddleware"
)

// RegisterStatsRoutes wires the statistics endpoints. The aggregator is
// constructed by the router and shared with the match routes, so it is
// passed in rather than built here.
func RegisterStatsRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string, agg *Aggregator, repo StatsRepository) {

	statsController := NewStatsController(agg, repo)

	publicStats := router.Group("/stats")
	{
		publicStats.GET("/players", statsController.GetPlayerStats)
		publicStats.GET("/players/:player_id", statsController.GetPlayerStat)
		publicStats.GET("/top-performers", statsController.GetTopPerformers)
	}

	adminStats := router.Group("/stats")
	adminStats.Use(mw.AuthMiddleware(jwtSecret, db), rmiddleware.AdminMiddleware())
	{
		adminStats.POST("/matches/:match_id/process", statsController.ProcessMatch)
		adminStats.POST("/recalculate", statsController.Recalculate)
	}
}
