package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"grant-backend/internal/adminauth"
	"grant-backend/internal/audit"
	"grant-backend/internal/drafts"
	"grant-backend/internal/mail"
	"grant-backend/internal/resume"
	"grant-backend/internal/shared/config"
	"grant-backend/internal/shared/server"
	"grant-backend/internal/shared/storage/db"
	"grant-backend/internal/shared/storage/object"
	localstore "grant-backend/internal/shared/storage/object/local"
	s3store "grant-backend/internal/shared/storage/object/s3"
	"grant-backend/internal/shared/telemetry"
	"grant-backend/internal/submissions"
	"grant-backend/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	DraftsRepo      drafts.Repo
	ResumeStore     resume.Store
	SubmissionsRepo submissions.Repo

	DraftsService *drafts.Service
	ResumeService *resume.Service
	AdminAuth     *adminauth.Service
	Audit         *audit.Recorder
	Mail          mail.Dispatcher
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, uploadsHandler, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app, uploadsHandler); err != nil {
		return nil, err
	}

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory stores")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory stores: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, *uploads.Handler, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, nil, err
		}
		return store, uploads.NewHandler(store.Presign(), store.Bucket(), store.Prefix()), nil
	default:
		return localstore.New(cfg.LocalStoreDir), uploads.NewHandler(nil, "", ""), nil
	}
}

func buildServices(app *App, uploadsHandler *uploads.Handler) error {
	cfg := app.Config

	var draftsRepo drafts.Repo
	var resumeStore resume.Store
	var submissionsRepo submissions.Repo
	var auditStore audit.Store

	if app.DB != nil {
		draftsRepo = &drafts.PGRepo{DB: app.DB}
		resumeStore = &resume.PGStore{DB: app.DB}
		submissionsRepo = &submissions.PGRepo{DB: app.DB}
		auditStore = &audit.PGStore{DB: app.DB}
	} else {
		draftsRepo = drafts.NewMemoryRepo()
		resumeStore = resume.NewMemoryStore()
		submissionsRepo = submissions.NewMemoryRepo()
		auditStore = audit.NewMemoryStore()
	}

	dispatcher := buildMail(cfg)

	draftsSvc := &drafts.Service{Repo: draftsRepo, Store: app.Store}
	resumeSvc := &resume.Service{
		Drafts:        draftsSvc,
		Store:         resumeStore,
		Mail:          dispatcher,
		APIBaseURL:    cfg.APIBaseURL,
		PublicBaseURL: cfg.PublicBaseURL,
		TokenTTL:      cfg.ResumeTokenTTL,
	}

	adminSvc, err := adminauth.New(adminauth.Config{
		AdminEmails:    cfg.AdminEmails,
		MagicSecret:    cfg.MagicSecret,
		SessionSecret:  cfg.SessionSecret,
		MagicTTL:       cfg.MagicTTL,
		SessionTTL:     cfg.SessionTTL,
		UIBaseURL:      cfg.AdminUIBaseURL,
		ResendInterval: cfg.ResendInterval,
	}, buildLimiter(cfg), dispatcher, nil)
	if err != nil {
		return err
	}

	recorder := audit.NewRecorder(auditStore)

	app.DraftsRepo = draftsRepo
	app.ResumeStore = resumeStore
	app.SubmissionsRepo = submissionsRepo
	app.DraftsService = draftsSvc
	app.ResumeService = resumeSvc
	app.AdminAuth = adminSvc
	app.Audit = recorder
	app.Mail = dispatcher

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		DraftsHandler:      drafts.NewHandler(draftsSvc),
		ResumeHandler:      resume.NewHandler(resumeSvc),
		AdminAuthHandler:   adminauth.NewHandler(adminSvc),
		AdminAuth:          adminSvc,
		SubmissionsHandler: submissions.NewHandler(submissionsRepo, draftsSvc, recorder),
		UploadsHandler:     uploadsHandler,
	})
	return nil
}

func buildMail(cfg config.Config) mail.Dispatcher {
	if d := mail.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom); d != nil {
		return d
	}
	return mail.LogDispatcher{}
}

func buildLimiter(cfg config.Config) adminauth.RequestLimiter {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return adminauth.NewMemoryLimiter(nil)
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("bootstrap: invalid REDIS_URL, using in-memory rate limiter: %v", err)
		return adminauth.NewMemoryLimiter(nil)
	}
	return adminauth.NewRedisLimiter(redis.NewClient(opts))
}

// StartJanitor purges expired resume tokens and idle drafts on an hourly
// cadence until ctx is cancelled. Failures are logged and retried on the
// next tick.
func (a *App) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.sweep(ctx)
			}
		}
	}()
}

func (a *App) sweep(ctx context.Context) {
	now := time.Now().UTC()

	purgedTokens, err := a.ResumeStore.DeleteExpiredBefore(ctx, now)
	if err != nil {
		telemetry.Warn("janitor.resume_tokens.failed", map[string]any{"error": err.Error()})
	}

	purgedDrafts, err := a.DraftsRepo.DeleteIdleBefore(ctx, now.Add(-a.Config.DraftIdleTTL))
	if err != nil {
		telemetry.Warn("janitor.drafts.failed", map[string]any{"error": err.Error()})
	}

	if purgedTokens > 0 || purgedDrafts > 0 {
		telemetry.Info("janitor.sweep", map[string]any{
			"resume_tokens": purgedTokens,
			"drafts":        purgedDrafts,
		})
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
