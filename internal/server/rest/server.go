// Package rest exposes the interview assistant over HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/logging"
	"github.com/dmitrijs2005/shadowinterview/internal/metrics"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
	"github.com/dmitrijs2005/shadowinterview/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Users is the account side of the API; *services.UserService implements it.
type Users interface {
	Register(ctx context.Context, username, password, role string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, username, password *string) error
	ResetPassword(ctx context.Context, username, newPassword string) error
	Promote(ctx context.Context, username string) error
}

// Questions is implemented by *services.QuestionService.
type Questions interface {
	Add(ctx context.Context, text, category string) (*models.Question, error)
	List(ctx context.Context) ([]*models.Question, error)
	Replace(ctx context.Context, id int64, text, category string) error
}

// Recordings is implemented by *services.RecordingService.
type Recordings interface {
	Start(ctx context.Context, userID string) error
	Stop(ctx context.Context, userID string) (*services.RecordingResult, error)
	List(ctx context.Context, userID string) ([]*services.RecordingView, error)
}

type HTTPServer struct {
	address    string
	users      Users
	questions  Questions
	recordings Recordings
	logger     logging.Logger
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	jwtSecret  []byte
}

func NewHTTPServer(a string, l logging.Logger, m *metrics.Metrics, g prometheus.Gatherer, us Users, qs Questions, rs Recordings, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:    a,
		users:      us,
		questions:  qs,
		recordings: rs,
		logger:     l.With("module", "http_server"),
		metrics:    m,
		gatherer:   g,
		jwtSecret:  []byte(secretKey),
	}
}

// Router builds the route table.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.observe)

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/refresh", s.refresh).Methods(http.MethodPost)
	r.HandleFunc("/reset_password", s.resetPassword).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	user := r.NewRoute().Subrouter()
	user.Use(s.requireAuth)
	user.HandleFunc("/logout", s.logout).Methods(http.MethodGet)
	user.HandleFunc("/get_questions", s.getQuestions).Methods(http.MethodGet)
	user.HandleFunc("/update_profile", s.updateProfile).Methods(http.MethodPut)
	user.HandleFunc("/start_recording", s.startRecording).Methods(http.MethodPost)
	user.HandleFunc("/stop_recording", s.stopRecording).Methods(http.MethodPost)
	user.HandleFunc("/recordings", s.listRecordings).Methods(http.MethodGet)

	admin := r.NewRoute().Subrouter()
	admin.Use(s.requireAuth, s.requireRole(common.RoleAdmin))
	admin.HandleFunc("/add_question", s.addQuestion).Methods(http.MethodPost)
	admin.HandleFunc("/questions/{id:[0-9]+}", s.replaceQuestion).Methods(http.MethodPut)
	admin.HandleFunc("/promote_user", s.promoteUser).Methods(http.MethodPost)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
