package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/config"
	mw "github.com/PatelKrish-16/crease/internal/middleware"
	"github.com/PatelKrish-16/crease/pkg/rmiddleware"
)

func RegisterTeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {

	teamRepo := NewTeamRepository(db)
	teamController := NewTeamController(teamRepo, appConfig)

	publicTeams := router.Group("/teams")
	{
		publicTeams.GET("", teamController.GetAllTeams)
		publicTeams.GET("/:team_id", teamController.GetTeamByID)
		publicTeams.GET("/:team_id/players", teamController.GetTeamPlayers)
	}

	adminTeams := router.Group("/teams")
	adminTeams.Use(mw.AuthMiddleware(jwtSecret, db), rmiddleware.AdminMiddleware())
	{
		adminTeams.POST("", teamController.CreateTeam)
		adminTeams.PUT("/:team_id", teamController.UpdateTeam)
		adminTeams.DELETE("/:team_id", teamController.DeleteTeam)
		adminTeams.POST("/:team_id/players", teamController.AddTeamPlayer)
		adminTeams.DELETE("/:team_id/players/:registration_id", teamController.RemoveTeamPlayer)
	}
}
