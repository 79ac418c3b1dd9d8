package mcp

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	client "github.com/svmahh/25Jun-API-medical-classwork"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/config"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/logger"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/workqueue"
	"github.com/svmahh/25Jun-API-medical-classwork/mcp/internal/handlers"
)

const (
	serverName    = "loan-mcp-server"
	serverVersion = "0.1.0"

	shutdownTimeout = 10 * time.Second
	httpReadTimeout = 5 * time.Second
	httpIdleTimeout = 120 * time.Second
)

// loadConfig reads LOANS_* settings; flags override them.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet(serverName, flag.ContinueOnError)
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL of the loan API")
	fs.StringVar(&cfg.MCPAddr, "addr", cfg.MCPAddr, "Listen address for the Streamable HTTP transport")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	fs.BoolVar(&cfg.MemberLookup, "member-lookup", cfg.MemberLookup, "Call GET /loans/member/{id} instead of the stub")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = logger.New(serverName).With().Caller().Logger()
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds the MCP server with every loan tool registered.
func NewServer(api *client.Client, queue *workqueue.Queue) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	var h toolRegisterer = handlers.NewLoanHandler(api, queue)
	if err := h.RegisterTools(s); err != nil {
		return nil, err
	}
	return s, nil
}

// RunMCPServer starts the MCP server and blocks until it stops.
func RunMCPServer() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	initLogger(cfg)

	log.Info().Str("base_url", cfg.BaseURL).Bool("member_lookup", cfg.MemberLookup).Msg("Creating loan client")
	loanClient, err := client.New(cfg.BaseURL,
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithMemberLookup(cfg.MemberLookup),
		client.WithDebugLogging(cfg.Debug),
		client.WithUserAgent(serverName+"/"+serverVersion),
	)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}

	qcfg, err := workqueue.LoadConfig()
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to load queue config")
		return err
	}
	qcfg.ErrorHandler = func(err error) {
		log.Warn().Err(err).Msg("loan job failed")
	}
	queue := workqueue.New(qcfg)
	defer queue.Stop()

	s, err := NewServer(loanClient, queue)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to register loan tools")
		return err
	}

	if shouldUseStdio() {
		log.Info().Msg("Starting loan MCP server (stdio transport)")
		if err := server.ServeStdio(s); err != nil {
			log.Error().Err(err).Msg("Stdio server error")
			return err
		}
		return nil
	}

	return serveHTTP(cfg, s)
}

// serveHTTP runs the Streamable HTTP transport plus /metrics until SIGINT or
// SIGTERM.
func serveHTTP(cfg *config.Config, s *server.MCPServer) error {
	log.Info().Str("addr", cfg.MCPAddr).Msg("Starting loan MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)

	mux := http.NewServeMux()
	mux.Handle("/mcp", streamSrv)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.MCPAddr,
		Handler:      mux,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: 0, // SSE streams have no deadline
		IdleTimeout:  httpIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("HTTP server error")
		return err
	}

	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio picks stdio when forced by MCP_STDIO or when stdin is not a
// terminal (the server was launched by an MCP host).
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
