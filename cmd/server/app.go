package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/phrazzld/autolist-api/internal/config"
	"github.com/phrazzld/autolist-api/internal/platform/localfs"
	"github.com/phrazzld/autolist-api/internal/platform/postgres"
	"github.com/phrazzld/autolist-api/internal/platform/s3"
	"github.com/phrazzld/autolist-api/internal/service"
	"github.com/phrazzld/autolist-api/internal/service/auth"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/spf13/afero"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// localFiles is set when images live on the local filesystem and must be
	// served by this process.
	localFiles afero.Fs

	jwtService         auth.JWTService
	userService        service.UserService
	publicationService service.PublicationService
	catalogService     service.CatalogService
	commentService     service.CommentService
	likeService        service.LikeService
	uploadService      service.UploadService
}

// newApplication wires stores, blob storage and services around an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	blobs, err := app.setupBlobStore(ctx)
	if err != nil {
		return nil, err
	}

	users := postgres.NewPostgresUserStore(db, logger)
	publications := postgres.NewPostgresPublicationStore(db, logger)
	images := postgres.NewPostgresImageStore(db, logger)
	categories := postgres.NewPostgresCategoryStore(db, logger)
	brands := postgres.NewPostgresBrandStore(db, logger)
	comments := postgres.NewPostgresCommentStore(db, logger)
	likes := postgres.NewPostgresLikeStore(db, logger)

	app.userService = service.NewUserService(
		users,
		images,
		blobs,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		db,
		logger,
	)
	app.publicationService, err = service.NewPublicationService(
		db,
		publications,
		images,
		categories,
		brands,
		blobs,
		cfg.Storage.UploadConcurrency,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create publication service: %w", err)
	}
	app.catalogService = service.NewCatalogService(categories, brands, logger)
	app.commentService = service.NewCommentService(comments, publications, logger)
	app.likeService = service.NewLikeService(likes, logger)

	var presigner store.Presigner
	if p, ok := blobs.(store.Presigner); ok && cfg.Storage.Driver == config.StorageDriverS3 {
		presigner = p
	}
	app.uploadService = service.NewUploadService(presigner, logger)

	logger.Info("application initialized")
	return app, nil
}

// setupBlobStore builds the image store selected by storage.driver.
func (app *application) setupBlobStore(ctx context.Context) (store.BlobStore, error) {
	cfg := app.config.Storage
	switch cfg.Driver {
	case config.StorageDriverS3:
		blobs, err := s3.New(ctx, cfg.S3, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 blob store: %w", err)
		}
		app.logger.Info("using S3 blob store",
			slog.String("bucket", cfg.S3.Bucket),
			slog.String("endpoint", cfg.S3.Endpoint))
		return blobs, nil

	case config.StorageDriverLocal:
		blobs, err := localfs.New(cfg.Local.Dir, cfg.Local.PublicBaseURL, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local blob store: %w", err)
		}
		app.localFiles = blobs.Fs()
		app.logger.Info("using local blob store", slog.String("dir", cfg.Local.Dir))
		return blobs, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// localFilesPath is the URL path the local blob store's files are served under.
func (app *application) localFilesPath() string {
	u, err := url.Parse(app.config.Storage.Local.PublicBaseURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/uploads"
	}
	return u.Path
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
