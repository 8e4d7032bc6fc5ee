package api

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/isqad/melody"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vivekkatkar/PrepSync/internal/core"
	"github.com/vivekkatkar/PrepSync/internal/presence"
	"github.com/vivekkatkar/PrepSync/internal/recordings"
	"github.com/vivekkatkar/PrepSync/internal/service"
	"github.com/vivekkatkar/PrepSync/internal/signaling"
)

// AppOptions is options of the application
type AppOptions struct {
	DB         *sqlx.DB
	Signaling  *signaling.Service
	Presence   *presence.Tracker
	Recordings *recordings.Publisher

	JWTSecret        string
	FrontendURL      string
	UploadRoot       string
	MaxRecordingSize int64

	router         *chi.Mux
	websocket      *melody.Melody
	authMiddleware AuthHandler

	usersStorage      core.UserStorer
	interviewsStorage core.InterviewsStorer
	usageStorage      core.FeatureUsageStorer
	interviewsManager *service.InterviewsManager
}

// App is application for API
type App struct {
	AppOptions
}

// NewApp creates a new API application
func NewApp(options AppOptions) *App {
	options.router = chi.NewRouter()
	options.websocket = melody.New()
	options.websocket.Config.MaxMessageSize = 64 * 1024

	options.usersStorage = core.NewUserRepository(options.DB)
	options.interviewsStorage = core.NewInterviewsRepository(options.DB)
	options.usageStorage = core.NewFeatureUsageRepository(options.DB)
	options.interviewsManager = service.NewInterviewsManager(
		options.usersStorage,
		options.interviewsStorage,
		options.usageStorage,
		options.Presence,
		options.FrontendURL,
	)

	auth := NewJWTAuth(options.usersStorage, options.JWTSecret)
	options.authMiddleware = auth.Middleware()

	app := &App{
		options,
	}
	return app
}

// Router is function for construct http router
func (app *App) Router() http.Handler {
	app.router.Use(middleware.RealIP)
	app.router.Use(middleware.Recoverer)

	app.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	app.router.Get("/metrics", promhttp.Handler().ServeHTTP)

	uploadsDir := http.Dir(filepath.Clean(app.UploadRoot))
	app.router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsDir)))

	app.router.With(app.authMiddleware).Route("/", func(r chi.Router) {
		r.Get("/peer-interview/ws", WebsocketsHandler(app.websocket))

		r.Post("/interviews", InterviewCreateHandler(app.interviewsManager))
		r.Get("/interviews/user", InterviewsListHandler(app.interviewsStorage))
		r.Get("/interviews/join/{roomID}", InterviewJoinHandler(app.interviewsStorage))
		r.Patch("/interviews/{roomID}/recording", InterviewRecordingHandler(app.interviewsStorage))

		r.Post("/upload-recording", RecordingUploadHandler(app.Recordings, app.UploadRoot, app.MaxRecordingSize))
	})

	app.websocket.HandleConnect(ConnectHandler(app.Presence))
	app.websocket.HandlePong(PongHandler(app.Presence))
	app.websocket.HandleDisconnect(DisconnectHandler(app.Signaling, app.Presence))
	app.websocket.HandleMessage(HandleMessage(app.Signaling))

	return app.router
}
