package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"salesforecast/config"
	shttp "salesforecast/http"
	"salesforecast/logger"
	"salesforecast/ml"
	"salesforecast/predict"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	envFile := flag.String("env-file", ".env", "optional dotenv file")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "sales prediction service: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	// 1. Load config
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, level := logger.New(cfg.Log)
	defer log.Sync()

	// 2. Load the model before anything binds the port
	model, err := ml.LoadModel(cfg.Model.Path)
	if err != nil {
		log.Error("failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		return err
	}
	log.Info("model loaded", zap.String("path", cfg.Model.Path), zap.String("kind", model.Kind()))

	service, err := predict.NewService(model, predict.Options{CacheSize: cfg.Model.CacheSize}, log.Named("predict"))
	if err != nil {
		return err
	}

	// 3. Follow log level changes in the config file
	if _, statErr := os.Stat(configPath); statErr == nil {
		watcher, err := config.Watch(configPath, log.Named("config"), func(updated *config.Config) {
			level.SetLevel(logger.ParseLevel(updated.Log.Level))
		})
		if err != nil {
			log.Warn("config watch disabled", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	// 4. Start HTTP server
	server := shttp.NewServer(shttp.ServerConfig{
		Port:           cfg.HTTP.Port,
		Timeout:        cfg.HTTP.Timeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		CORSEnabled:    cfg.CORS.Enabled,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, service, log.Named("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := server.Stop(); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
	log.Info("exiting")
	return nil
}
