package main

import (
	"log"
	"net/http"
	"time"

	"github.com/pratham-8123/vaultbox/internal/api"
	"github.com/pratham-8123/vaultbox/internal/api/handlers"
	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/pratham-8123/vaultbox/internal/repositories"
	"github.com/pratham-8123/vaultbox/internal/services"
)

// @title VaultBox API
// @version 1.0
// @description Multi-tenant file storage backend with folder hierarchies, search and S3-backed file content.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	db := repositories.ConnectDatabase()
	repositories.SeedAdminUser(db)
	repositories.MigrateLegacyFilePaths(db)

	blobs, err := repositories.InitS3(config.Envs.S3)
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}

	folders := repositories.NewFolderRepo(db)
	files := repositories.NewFileRepo(db)
	users := repositories.NewUserRepo(db)

	access := services.NewAccessResolver(users)

	handlers.Init(handlers.Services{
		Folders: services.NewFolderService(folders, files, users, access, blobs),
		Files:   services.NewFileService(files, folders, users, access, blobs, config.Envs.Upload),
		Browse:  services.NewBrowseService(folders, files, users, access),
		Search:  services.NewSearchService(folders, files, users, access),
		Users:   services.NewUserService(users),
		Store:   users,
	})

	router := api.SetupRouter()

	server := &http.Server{
		Addr:         ":" + config.Envs.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on port %s", config.Envs.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
