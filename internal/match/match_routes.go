package match

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/config"
	mw "github.com/PatelKrish-16/crease/internal/middleware"
	"github.com/PatelKrish-16/crease/pkg/rmiddleware"
)

// RegisterMatchRoutes wires the match endpoints. The notifier is the stats
// aggregator; result submissions and deletions flow through it.
func RegisterMatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string, notifier EngineNotifier) {

	matchRepo := NewGormMatchRepository(db)
	matchController := NewMatchController(matchRepo, notifier, appConfig)

	publicMatches := router.Group("/matches")
	{
		publicMatches.GET("", matchController.GetMatches)
		publicMatches.GET("/:match_id", matchController.GetMatchByID)
	}

	authenticated := router.Group("/matches")
	authenticated.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		scoring := authenticated.Group("")
		scoring.Use(rmiddleware.ScorerOrAdminMiddleware())
		{
			scoring.PUT("/:match_id", matchController.UpdateMatch)
			scoring.POST("/:match_id/start", matchController.StartMatch)
			scoring.POST("/:match_id/complete", matchController.CompleteMatch)
		}

		admin := authenticated.Group("")
		admin.Use(rmiddleware.AdminMiddleware())
		{
			admin.POST("", matchController.CreateMatch)
			admin.DELETE("/:match_id", matchController.DeleteMatch)
		}
	}
}
