package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/vivekkatkar/PrepSync/internal/api"
	"github.com/vivekkatkar/PrepSync/internal/config"
	"github.com/vivekkatkar/PrepSync/internal/core"
	"github.com/vivekkatkar/PrepSync/internal/presence"
	"github.com/vivekkatkar/PrepSync/internal/recordings"
	"github.com/vivekkatkar/PrepSync/internal/signaling"
)

func main() {
	app := &cli.App{
		Name:        "prepsync-server",
		Usage:       "Interview platform API and signaling server",
		Description: "",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "env",
				Usage:    "environment: either 'development' or 'production'",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "listen IP and port, example: ':3000' for listen on 0.0.0.0:3000",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config file",
			},
		},
		Action: startServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}

func startServer(c *cli.Context) error {
	initLogger(core.Environment(c.String("env")))

	conf, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	address := conf.App.Address
	if c.String("address") != "" {
		address = c.String("address")
	}

	db, err := sqlx.Connect("pgx", conf.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: conf.Redis.Addr,
		DB:   conf.Redis.DB,
	})
	defer rdb.Close()

	nc, err := nats.Connect(conf.Nats.Addr)
	if err != nil {
		return err
	}
	defer nc.Drain()

	interviewsRepo := core.NewInterviewsRepository(db)
	registry := signaling.NewRegistry()

	apiApp := api.NewApp(api.AppOptions{
		DB:               db,
		Signaling:        signaling.NewService(registry, interviewsRepo),
		Presence:         presence.NewTracker(rdb),
		Recordings:       recordings.NewPublisher(nc),
		JWTSecret:        conf.App.JWTSecret,
		FrontendURL:      conf.App.FrontendURL,
		UploadRoot:       conf.App.UploadRoot,
		MaxRecordingSize: conf.App.MaxRecordingSize,
	})

	quit := make(chan os.Signal, 1)
	done := make(chan struct{}, 1)

	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	server := &http.Server{
		Addr:              address,
		Handler:           apiApp.Router(),
		ReadHeaderTimeout: 1 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Warn().Msg("received signal to terminate the server")
		log.Info().Msg("all services are stopped")
		close(done)
	})

	go func() {
		<-quit
		log.Warn().Msg("the server is going shutting down")

		// Wait 20 seconds for close http connections
		waitIdleConnCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(waitIdleConnCtx); err != nil {
			log.Fatal().Err(err).Msg("can't gracefully shutdown the server")
		}
	}()

	log.Info().Str("address", address).Msg("server is listening")

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server has been closed immediatelly")
	}

	<-done
	log.Info().Msg("server stopped")

	return nil
}

func initLogger(env core.Environment) {
	cw := zerolog.NewConsoleWriter()
	log.Logger = log.Output(cw)

	level := zerolog.InfoLevel

	if env.IsDevelopment() {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
}
