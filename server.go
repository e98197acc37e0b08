package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialweb/api/handlers"
	"socialweb/api/middleware"
	"socialweb/api/routes"
	"socialweb/config"
	"socialweb/events"
	"socialweb/guard"
	"socialweb/logger"
	"socialweb/storage"
	"socialweb/store"
	"socialweb/transport"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	conf := config.AppConfig

	if err := logger.Init(conf.Logs.Level); err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	log := logger.Logger
	defer func() { _ = log.Sync() }()
	log.Info("Starting app shell...", zap.String("env", conf.Env), zap.String("listen", conf.App.Listen))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := storage.Open(ctx, conf.Storage, log.Named("storage"))
	if err != nil {
		log.Fatal("Failed to open client storage", zap.Error(err))
	}
	defer st.Close()

	baseURL, err := conf.API.ResolveBaseURL(conf.Env)
	if err != nil {
		log.Fatal("Failed to resolve API base URL", zap.Error(err))
	}
	api := transport.New(transport.Options{
		BaseURL:       baseURL,
		Timeout:       conf.API.Timeout,
		UploadTimeout: conf.API.UploadTimeout,
		Logger:        log.Named("api"),
	})

	hub := events.NewHub(log.Named("ws"))
	sinks := events.Fanout{hub}
	if conf.Events.AMQPURL != "" {
		publisher, err := events.DialAMQP(conf.Events.AMQPURL, conf.Events.Exchange, log.Named("amqp"))
		if err != nil {
			log.Warn("State events will not be published to RabbitMQ", zap.Error(err))
		} else {
			defer publisher.Close()
			sinks = append(sinks, publisher)
		}
	}

	navigator := guard.NewRouter(nil, log.Named("router"))
	app := store.New(store.Deps{
		API:       api,
		Storage:   st,
		Navigator: navigator,
		Notifier:  sinks,
		Logger:    log.Named("store"),
	})
	navigator.SetAuth(app.Auth)

	if err = app.Auth.Rehydrate(ctx); err != nil {
		log.Error("Failed to restore session", zap.Error(err))
	}
	if err = api.CheckConnection(ctx); err != nil {
		log.Warn("API is not reachable yet, continuing", zap.String("base_url", baseURL))
	}

	if conf.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("socialweb"))

	handlers.Init(handlers.Deps{Store: app, Hub: hub, BasePath: conf.App.BasePath, Logger: log.Named("shell")})
	routes.AppShell(router, conf.App.BasePath, app.Auth)

	srv := &http.Server{Addr: conf.App.Listen, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("App shell stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down app shell...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
