package main

import (
	"log"

	"github.com/PatelKrish-16/crease/config"
	_ "github.com/PatelKrish-16/crease/docs"
	"github.com/PatelKrish-16/crease/internal/auth"
	"github.com/PatelKrish-16/crease/internal/career"
	"github.com/PatelKrish-16/crease/internal/engine"
	"github.com/PatelKrish-16/crease/internal/match"
	"github.com/PatelKrish-16/crease/internal/registration"
	"github.com/PatelKrish-16/crease/internal/standings"
	"github.com/PatelKrish-16/crease/internal/stats"
	"github.com/PatelKrish-16/crease/internal/team"
	"github.com/PatelKrish-16/crease/internal/user"
	"github.com/PatelKrish-16/crease/routes"
)

// @title Crease REST API
// @version 1.0
// @description Cricket tournament statistics and standings engine 🏏
// @host localhost:8088
// @BasePath /api
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &auth.RefreshToken{},
		&team.Team{}, &team.TeamPlayer{},
		&registration.PlayerRegistration{},
		&match.Match{},
		&stats.PlayerStat{}, &stats.ProcessedMatch{}, &stats.StatContribution{},
		&standings.TeamStanding{},
		&career.CareerStat{}, &career.SeasonArchive{},
		&engine.EngineLock{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(config.DB, cfg)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
