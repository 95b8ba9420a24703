package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "coursefit-backend/internal/auth"
	"coursefit-backend/internal/catalog"
	"coursefit-backend/internal/queue"
	"coursefit-backend/internal/recommendation"
	"coursefit-backend/internal/services/health"
	"coursefit-backend/internal/shared/auth"
	"coursefit-backend/internal/shared/cache"
	"coursefit-backend/internal/shared/config"
	"coursefit-backend/internal/shared/server"
	"coursefit-backend/internal/shared/storage/db"
	"coursefit-backend/internal/shared/storage/object"
	localstore "coursefit-backend/internal/shared/storage/object/local"
	s3store "coursefit-backend/internal/shared/storage/object/s3"
	"coursefit-backend/internal/staff"
	"coursefit-backend/internal/submissions"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Dialect db.Dialect
	Cache   *cache.Cache
	Store   object.ObjectStore
	Queue   queue.Client

	Catalog *catalog.Catalog
	Engine  *recommendation.Engine
	Issuer  *auth.Issuer
	Revoker auth.Revoker
	Health  *health.Service

	SubmissionsRepo    submissions.Repo
	StaffRepo          staff.Repo
	SubmissionsService *submissions.Service
	StaffService       *staff.Service
	SubmissionsHandler *submissions.Handler
	StaffHandler       *staff.Handler
	GoogleAuth         *googleauth.GoogleService
}

// Build prepares every dependency and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	cat, engine, err := LoadQuestionnaire(cfg)
	if err != nil {
		return nil, err
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL, cfg.Env)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Catalog: cat,
		Engine:  engine,
		Issuer:  issuer,
		Health:  health.NewService(),
	}

	app.DB, app.Dialect, err = buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := buildInfra(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Issuer:            app.Issuer,
		Revoker:           app.Revoker,
		Health:            app.Health,
		SubmissionHandler: app.SubmissionsHandler,
		StaffHandler:      app.StaffHandler,
		GoogleAuth:        app.GoogleAuth,
	})

	return app, nil
}

func buildInfra(ctx context.Context, app *App) error {
	var err error
	if app.Cache, err = buildCache(ctx, app.Config); err != nil {
		return err
	}
	if app.Store, err = buildStore(ctx, app.Config); err != nil {
		return err
	}
	if app.Queue, err = buildQueue(ctx, app.Config); err != nil {
		return err
	}
	return buildServices(app)
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	return errors.Join(errs...)
}

// LoadQuestionnaire loads the catalog and weight tables (embedded defaults unless
// CATALOG_FILE / WEIGHTS_FILE point elsewhere) and checks they agree.
func LoadQuestionnaire(cfg config.Config) (*catalog.Catalog, *recommendation.Engine, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if path := strings.TrimSpace(cfg.CatalogFile); path != "" {
		cat, err = catalog.LoadFile(path)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return nil, nil, err
	}

	weights := recommendation.DefaultWeights()
	if path := strings.TrimSpace(cfg.WeightsFile); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open weights: %w", err)
		}
		defer f.Close()
		weights, err = recommendation.LoadWeights(f)
		if err != nil {
			return nil, nil, err
		}
	}
	if err := cat.ValidateWeights(weights); err != nil {
		return nil, nil, err
	}
	engine, err := recommendation.NewEngine(weights)
	if err != nil {
		return nil, nil, err
	}
	return cat, engine, nil
}

// OpenDatabase connects to DATABASE_URL and applies migrations.
func OpenDatabase(ctx context.Context, databaseURL string, opts db.Options) (*sql.DB, db.Dialect, error) {
	target, err := db.ParseURL(databaseURL)
	if err != nil {
		return nil, "", err
	}
	sqlDB, err := db.Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, "", err
	}
	if err := db.RunMigrations(ctx, sqlDB, target.Dialect); err != nil {
		_ = sqlDB.Close()
		return nil, "", fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, target.Dialect, nil
}

var openDatabase = OpenDatabase

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, dialect, err := openDatabase(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database unavailable; using in-memory repositories: %v", err)
			return nil, "", nil
		}
		return nil, "", err
	}
	return sqlDB, dialect, nil
}

func buildCache(ctx context.Context, cfg config.Config) (*cache.Cache, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: redis unavailable; revocations kept in memory: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.SubmissionsQueue) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.SubmissionsQueue, cfg.AWSRegion)
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.SubmissionsRepo = &submissions.SQLRepo{DB: app.DB, Dialect: app.Dialect}
		app.StaffRepo = &staff.SQLRepo{DB: app.DB, Dialect: app.Dialect}
		app.Health.Register("database", health.CheckFunc(app.DB.PingContext))
	} else {
		app.SubmissionsRepo = submissions.NewMemoryRepo()
		app.StaffRepo = staff.NewMemoryRepo()
	}

	if app.Cache != nil {
		app.Revoker = auth.NewRedisRevoker(app.Cache.Client)
		app.Health.Register("redis", app.Cache)
	} else {
		app.Revoker = auth.NewMemoryRevoker()
	}

	app.SubmissionsService = &submissions.Service{
		Repo:    app.SubmissionsRepo,
		Catalog: app.Catalog,
		Engine:  app.Engine,
		Queue:   app.Queue,
		Store:   app.Store,
	}
	app.StaffService = staff.NewService(app.StaffRepo, app.Issuer, app.Revoker)
	app.StaffService.InRoster = app.Catalog.HasTeacher

	app.SubmissionsHandler = submissions.NewHandler(app.SubmissionsService)
	app.StaffHandler = staff.NewHandler(app.StaffService)
	if strings.TrimSpace(app.Config.GoogleClientID) != "" {
		app.GoogleAuth = googleauth.NewGoogleService(
			app.Config.GoogleClientID,
			app.Config.GoogleClientSecret,
			app.Config.GoogleRedirectURL,
			app.Config.UIRedirectURL,
			app.StaffService,
		)
	}

	if app.SubmissionsHandler == nil || app.StaffHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
