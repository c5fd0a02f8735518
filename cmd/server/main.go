// Command server runs the LightFlow chat-completion relay gateway.
//
// Configuration is layered: built-in defaults, an optional YAML file
// (LIGHTFLOW_CONFIG, ./config.yaml, or /etc/lightflow/config.yaml),
// then environment variable overrides:
//
//	LIGHTFLOW_UPSTREAM_URL     - Chat Completions backend URL (required)
//	LIGHTFLOW_UPSTREAM_API_KEY - Backend API key (optional)
//	LIGHTFLOW_MODEL            - Default model name (optional)
//	LIGHTFLOW_PORT             - Listen port (default: 8080)
//	LIGHTFLOW_AUTH_TYPE        - Inbound auth: none, apikey, jwt (default: none)
//	LIGHTFLOW_JWT_SECRET       - HMAC secret for jwt auth
//	LIGHTFLOW_DEBUG            - Debug categories: relay, stream, transport, auth, config, all
//	LIGHTFLOW_LOG_LEVEL        - ERROR, WARN, INFO, DEBUG, TRACE
//
// A .env file in the working directory is loaded before anything else.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Decadesice/LightFlow/pkg/auth"
	"github.com/Decadesice/LightFlow/pkg/auth/apikey"
	"github.com/Decadesice/LightFlow/pkg/auth/jwt"
	"github.com/Decadesice/LightFlow/pkg/auth/noop"
	"github.com/Decadesice/LightFlow/pkg/config"
	"github.com/Decadesice/LightFlow/pkg/debug"
	"github.com/Decadesice/LightFlow/pkg/observability"
	"github.com/Decadesice/LightFlow/pkg/relay"
	"github.com/Decadesice/LightFlow/pkg/transport"
	transporthttp "github.com/Decadesice/LightFlow/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Optional .env for local development; missing file is fine.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	debug.Init("", "")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	client := relay.New(cfg.Upstream.BaseURL, cfg.Upstream.APIKey, cfg.Upstream.Timeout)
	defer client.Close()

	handler := transport.NewRelayHandler(client, cfg.Upstream.DefaultModel)

	chain, err := buildAuthChain(cfg)
	if err != nil {
		return fmt.Errorf("configuring authentication: %w", err)
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithHTTPMiddleware(
			observability.MetricsMiddleware,
			auth.Middleware(chain, auth.DefaultBypassEndpoints),
		),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithRoute(cfg.Observability.Metrics.Path, promhttp.Handler()))
	}

	srv := transporthttp.NewServer(handler, opts...)

	slog.Info("relay configured",
		"upstream", cfg.Upstream.BaseURL,
		"model", cfg.Upstream.DefaultModel,
		"auth", cfg.Auth.Type,
		"port", cfg.Server.Port,
	)

	return srv.ListenAndServe()
}

// buildAuthChain translates the auth config into an authenticator chain.
func buildAuthChain(cfg *config.Config) (*auth.AuthChain, error) {
	switch cfg.Auth.Type {
	case "", "none":
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{noop.New()},
			DefaultDecision: auth.Yes,
		}, nil

	case "apikey":
		keys := make([]apikey.Key, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			keys = append(keys, apikey.Key{Secret: k.Key, Subject: k.Subject})
		}
		return &auth.AuthChain{
			Authenticators:  []auth.Authenticator{apikey.New(keys)},
			DefaultDecision: auth.No,
		}, nil

	case "jwt":
		return &auth.AuthChain{
			Authenticators: []auth.Authenticator{
				jwt.New(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
			},
			DefaultDecision: auth.No,
		}, nil

	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Auth.Type)
	}
}
