package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/pratham-8123/vaultbox/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pratham-8123/vaultbox/internal/api/handlers"
	"github.com/pratham-8123/vaultbox/internal/api/middleware"
	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/rs/cors"
)

func SetupRouter() http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("/register", handlers.RegisterUser)
	authMux.HandleFunc("/login", handlers.LoginUser)
	authMux.HandleFunc("/google/login", handlers.HandleGoogleLogin)
	authMux.HandleFunc("/google/callback", handlers.HandleGoogleCallback)

	// Session routes live under /auth but still require a valid token.
	authMux.Handle("GET /me", middleware.AuthMiddleware(http.HandlerFunc(handlers.Me)))
	authMux.Handle("POST /logout", middleware.AuthMiddleware(http.HandlerFunc(handlers.Logout)))

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	folderMux := http.NewServeMux()
	folderMux.HandleFunc("POST /", handlers.CreateFolder)
	folderMux.HandleFunc("GET /", handlers.ListFolders)
	folderMux.HandleFunc("GET /{id}", handlers.GetFolder)
	folderMux.HandleFunc("PATCH /{id}/rename", handlers.RenameFolder)
	folderMux.HandleFunc("DELETE /{id}", handlers.DeleteFolder)

	fileMux := http.NewServeMux()
	fileMux.HandleFunc("POST /upload", handlers.UploadFile)
	fileMux.HandleFunc("GET /", handlers.ListFiles)
	fileMux.HandleFunc("GET /{id}", handlers.GetFile)
	fileMux.HandleFunc("GET /{id}/download", handlers.DownloadFile)
	fileMux.HandleFunc("GET /{id}/presign", handlers.PresignDownload)
	fileMux.HandleFunc("DELETE /{id}", handlers.DeleteFile)

	protectedMux.Handle("/folders", http.StripPrefix("/folders", folderMux))
	protectedMux.Handle("/folders/", http.StripPrefix("/folders", folderMux))
	protectedMux.Handle("/files", http.StripPrefix("/files", fileMux))
	protectedMux.Handle("/files/", http.StripPrefix("/files", fileMux))

	protectedMux.HandleFunc("GET /browse", handlers.BrowseFolder)
	protectedMux.HandleFunc("GET /search", handlers.SearchItems)
	protectedMux.HandleFunc("GET /users", handlers.ListUsers)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
