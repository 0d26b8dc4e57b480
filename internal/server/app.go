// Package server wires the interview assistant together: database and
// migrations, audio capture, transcription, the HTTP API, the gRPC health
// service and local recording retention. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
	"github.com/dmitrijs2005/shadowinterview/internal/logging"
	"github.com/dmitrijs2005/shadowinterview/internal/metrics"
	"github.com/dmitrijs2005/shadowinterview/internal/recorder"
	"github.com/dmitrijs2005/shadowinterview/internal/server/config"
	"github.com/dmitrijs2005/shadowinterview/internal/server/health"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/shadowinterview/internal/server/rest"
	"github.com/dmitrijs2005/shadowinterview/internal/server/retention"
	"github.com/dmitrijs2005/shadowinterview/internal/server/services"
	"github.com/dmitrijs2005/shadowinterview/internal/transcription"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	registry         *prometheus.Registry
	metrics          *metrics.Metrics
	coordinator      *recorder.Coordinator
	userService      *services.UserService
	questionService  *services.QuestionService
	recordingService *services.RecordingService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	transcriber := transcription.NewClient(transcription.Config{
		Endpoint: c.TranscriptionEndpoint,
		APIKey:   c.TranscriptionAPIKey,
		Model:    c.TranscriptionModel,
		Language: c.TranscriptionLanguage,
		Timeout:  2 * time.Minute,
	})

	coordinator := recorder.NewCoordinator(
		audio.PulseSource{SourceName: c.AudioSource},
		recorder.NewPersister(c.RecordingsDir, audio.AnswerFormat),
		transcriber,
		logger,
		m,
	)

	// a nil Archiver disables archiving; keep it an untyped nil
	var archive services.Archiver
	if c.ArchiveEnabled() {
		archive = services.NewArchiveService(c)
		logger.Info(ctx, "Recording archive enabled", "bucket", c.S3Bucket)
	}

	return &App{
		config:           c,
		logger:           logger,
		db:               db,
		registry:         reg,
		metrics:          m,
		coordinator:      coordinator,
		userService:      services.NewUserService(db, rm, c),
		questionService:  services.NewQuestionService(db, rm),
		recordingService: services.NewRecordingService(db, rm, coordinator, archive, logger, m),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.metrics, app.registry,
		app.userService, app.questionService, app.recordingService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := health.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		retention.NewJanitor(app.config.RecordingsDir, app.config.RecordingsRetention, app.logger, app.metrics).Run(ctx)
	}()

	wg.Wait()

	app.coordinator.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
