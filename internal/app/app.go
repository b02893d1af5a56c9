package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/jobtracker/internal/config"
	"github.com/templui/jobtracker/internal/db"
	"github.com/templui/jobtracker/internal/repository"
	"github.com/templui/jobtracker/internal/service"
	"github.com/templui/jobtracker/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Storage            storage.Storage
	AuthService        *service.AuthService
	ApplicationService *service.ApplicationService
	NoteService        *service.NoteService
	AttachmentService  *service.AttachmentService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	attachmentStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, attachmentStorage), nil
}

// Wire builds repositories and services on an already migrated database.
func Wire(cfg *config.Config, database *sqlx.DB, attachmentStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	applicationRepository := repository.NewApplicationRepository(database)
	noteRepository := repository.NewNoteRepository(database)
	attachmentRepository := repository.NewAttachmentRepository(database)

	// Services
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	applicationService := service.NewApplicationService(applicationRepository)
	noteService := service.NewNoteService(noteRepository, applicationRepository)
	attachmentService := service.NewAttachmentService(
		attachmentRepository,
		applicationRepository,
		attachmentStorage,
		cfg.MaxUploadSize,
	)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Storage:            attachmentStorage,
		AuthService:        authService,
		ApplicationService: applicationService,
		NoteService:        noteService,
		AttachmentService:  attachmentService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
