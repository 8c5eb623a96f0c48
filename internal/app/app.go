package app

import (
	"context"
	"log/slog"

	httpapp "mental_models_hub/internal/app/http"
	"mental_models_hub/internal/config"
	"mental_models_hub/internal/repository"
	filestorage "mental_models_hub/internal/storage/filestorage"
	redisapp "mental_models_hub/internal/storage/redis"

	audiosvc "mental_models_hub/internal/services/audio_service"
	authsvc "mental_models_hub/internal/services/auth_service"
	catalogsvc "mental_models_hub/internal/services/catalog_service"
	modelsvc "mental_models_hub/internal/services/model_service"
	taxonomysvc "mental_models_hub/internal/services/taxonomy_service"
	uploadsvc "mental_models_hub/internal/services/upload_service"
	httprouters "mental_models_hub/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	repo       *repository.Repository
	redis      *redisapp.Client
}

func New(log *slog.Logger, cfg *config.Config) *App {
	repo, err := repository.NewRepository(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	files, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		panic(err)
	}

	tokenRepo := repository.NewRedisTokenRepo(redisClient)

	taxonomyService := taxonomysvc.NewTaxonomyService(log, repo.Taxonomy, cfg.Catalog.TaxonomyCacheTTL)
	catalogService := catalogsvc.NewCatalogService(log, repo.Model, taxonomyService)
	modelService := modelsvc.NewModelService(log, repo.Model, repo.Taxonomy)
	authService := authsvc.NewAuthService(
		log,
		repo.User,
		tokenRepo,
		cfg.Admin.TokenSecret,
		cfg.Admin.AccessTokenTTL,
		cfg.Admin.RefreshTokenTTL,
	)
	uploadService := uploadsvc.NewUploadService(log, files, cfg.FileStorage.MaxSize)
	synthesizer := audiosvc.NewHTTPSynthesizer(cfg.TTS.Endpoint, cfg.TTS.APIKey, cfg.TTS.Timeout)
	audioService := audiosvc.NewAudioService(log, repo.Model, files, synthesizer)

	routers := httprouters.NewRouter(
		log,
		catalogService,
		modelService,
		taxonomyService,
		authService,
		uploadService,
		audioService,
	)

	server := httpapp.New(
		log,
		cfg.Admin.TokenSecret,
		cfg.Admin.SessionSecret,
		cfg.HTTP.Host,
		cfg.HTTP.Port,
		cfg.FileStorage.BaseDir,
		routers,
	)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}
}

// Stop shuts the HTTP server down and releases storage connections.
func (a *App) Stop() error {
	if err := a.HTTPServer.Stop(); err != nil {
		return err
	}

	a.repo.Close()
	a.redis.Close()
	return nil
}
