package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "github.com/dfryer1193/goblog-api/auth/application"
	authpersistence "github.com/dfryer1193/goblog-api/auth/persistence"
	blogapp "github.com/dfryer1193/goblog-api/blog/application"
	blogpersistence "github.com/dfryer1193/goblog-api/blog/persistence"
	"github.com/dfryer1193/goblog-api/internal/middleware"
	"github.com/dfryer1193/goblog-api/internal/rest"
	mediaapp "github.com/dfryer1193/goblog-api/media/application"
	mediapersistence "github.com/dfryer1193/goblog-api/media/persistence"
	"github.com/dfryer1193/goblog-api/shared/db/sqlite"
	"github.com/dfryer1193/goblog-api/shared/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout    = 5 * time.Second
	maxMultipartMemory = 8 << 20
)

func main() {
	logging.Configure(logging.NewLogConfig())

	serverCfg, err := NewServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid server configuration")
	}

	authCfg, err := authapp.NewAuthConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid auth configuration")
	}

	uploadCfg := mediaapp.NewUploadConfig()

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig())
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()
	conn := database.DB()

	images := mediaapp.NewUploadService(mediapersistence.NewImageRepository(conn, uploadCfg.ImageDir), uploadCfg)
	postRepo := blogpersistence.NewPostRepository(conn)
	categoryRepo := blogpersistence.NewCategoryRepository(conn)

	services := &rest.Services{
		Auth:       authapp.NewAuthService(authpersistence.NewUserRepository(conn), authapp.NewTokenIssuer(authCfg)),
		Posts:      blogapp.NewPostService(postRepo, categoryRepo, blogapp.NewMarkdownRenderer(uploadCfg.PublicBaseURL), images),
		Comments:   blogapp.NewCommentService(postRepo, blogpersistence.NewCommentRepository(conn)),
		Categories: blogapp.NewCategoryService(categoryRepo),
		Images:     images,
		DB:         database,
	}

	if serverCfg.GinMode != "" {
		gin.SetMode(serverCfg.GinMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, services)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", serverCfg.Port),
		Handler:      router,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", serverCfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
