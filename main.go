package main

import (
	"github.com/plumeblog/plume/config"
	"github.com/plumeblog/plume/models"
	"github.com/plumeblog/plume/routes"
	"github.com/plumeblog/plume/services"
	"github.com/plumeblog/plume/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Category{}, &models.Post{}, &models.Comment{})

	// The category registry is fixed; make sure every default exists.
	if err := services.NewCategoryService(db).Seed(); err != nil {
		utils.Sugar.Fatalf("category seed failed: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
