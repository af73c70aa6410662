package main

import (
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/moose735/TLOED/internal/config"
	"github.com/moose735/TLOED/internal/diag"
	"github.com/moose735/TLOED/internal/observability"
)

func main() {
	def := config.Default()
	var (
		configPath  = flag.String("config", "", "TOML configuration file")
		envFile     = flag.String("env-file", ".env", "dotenv file to load before reading the API key")
		addr        = flag.String("addr", def.Server.Addr, "HTTP listen address")
		mcpPath     = flag.String("path", def.Server.Path, "HTTP path for MCP endpoint")
		dataRoot    = flag.String("data", def.Data.Root, "league history directory or snapshot file")
		requireAuth = flag.Bool("require-auth", def.Server.RequireAuth, "require API key auth via LEGACY_MCP_API_KEY")
		authHeader  = flag.String("auth-header", def.Server.AuthHeader, "HTTP header to read API key from")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		config.Default().Logger().WithError(err).Fatal("load config")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Server.Addr = *addr
		case "path":
			cfg.Server.Path = *mcpPath
		case "data":
			cfg.Data.Root = *dataRoot
		case "require-auth":
			cfg.Server.RequireAuth = *requireAuth
		case "auth-header":
			cfg.Server.AuthHeader = *authHeader
		}
	})
	log := cfg.Logger()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not read env file")
	}
	apiKey := strings.TrimSpace(os.Getenv(cfg.Server.APIKeyEnv))
	if cfg.Server.RequireAuth && apiKey == "" {
		log.Fatalf("%s is required (set env var, add it to %s, or run with --require-auth=false)", cfg.Server.APIKeyEnv, *envFile)
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("", reg)
	sc := ServerConfig{
		Config:  cfg,
		Metrics: metrics,
		Sink:    diag.Tee(diag.NewLogrus(log), metrics.Sink()),
	}

	router := newRouter(sc, apiKey, reg)

	log.WithFields(logrus.Fields{"addr": cfg.Server.Addr, "path": cfg.Server.Path, "data": cfg.Data.Root}).Info("MCP HTTP server listening")
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
