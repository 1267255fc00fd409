package server

import (
	"context"
	"log"
	"log/slog"
	"strings"

	"docqa/app/api"
	"docqa/chunker"
	"docqa/model"
	"docqa/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
	BodyLimit:    32 * 1024 * 1024,
}

type Server struct {
	cfg    *Config
	logger *slog.Logger
	pool   *store.PostgresStore
}

func NewServer(cfg *Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	if s.pool != nil {
		s.pool.Close()
	}
	s.logger.Info("server stopped")
}

// Run initializes all collaborators before the listener accepts traffic
// and fails fast when any of them cannot come up.
func (s *Server) Run() {
	ctx := context.Background()

	pool, err := store.NewPostgresStore(ctx, s.cfg.ConnString(), s.cfg.VectorDim)
	if err != nil {
		log.Fatal("error to connect to Postgres database: ", err)
		return
	}
	s.pool = pool

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables: ", err)
		return
	}

	chunks, err := chunker.New(s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		log.Fatal("invalid chunker configuration: ", err)
		return
	}

	api.ExposeDetails(s.cfg.AppEnv != "production")

	var (
		embedder  = model.NewEmbedder(s.cfg.ProviderBaseURL, s.cfg.ProviderAPIKey, s.cfg.EmbedModel)
		generator = model.NewGenerator(s.cfg.ProviderBaseURL, s.cfg.ProviderAPIKey, s.cfg.ChatModel)

		app            = fiber.New(config)
		checkHandler   = api.NewCheckHandler()
		requestHandler = api.NewRequestHandler(pool, embedder, generator, chunks, api.Options{
			TopK:               s.cfg.TopK,
			ScoreThreshold:     s.cfg.ScoreThreshold,
			EmbedWorkers:       s.cfg.EmbedWorkers,
			ContextTokenBudget: s.cfg.ContextTokenBudget,
		})

		check = app.Group("/check")
	)

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.allowedOrigins(), ","),
		AllowMethods: "GET,POST,OPTIONS",
	}))

	check.Get("/healthy", checkHandler.HandleHealthy)
	app.Post("/upload", requestHandler.HandleUpload)
	app.Post("/query", requestHandler.HandleQuery)
	app.Get("/documents", requestHandler.HandleDocuments)

	if err := app.Listen(s.cfg.ListenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}

func (s *Server) allowedOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
	}
	if s.cfg.FrontendOrigin != "" {
		origins = append(origins, s.cfg.FrontendOrigin)
	}
	return origins
}
