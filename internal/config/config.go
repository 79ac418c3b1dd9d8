package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the deployed loan API.
const DefaultBaseURL = "https://opsc.azurewebsites.net"

// Config holds front-end configuration.
// Environment variables are parsed with the LOANS_ prefix.
type Config struct {
	BaseURL      string        `envconfig:"BASE_URL" default:"https://opsc.azurewebsites.net"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	Debug        bool          `envconfig:"DEBUG" default:"false"`
	MemberLookup bool          `envconfig:"MEMBER_LOOKUP" default:"false"`

	// MCP server only
	MCPAddr string `envconfig:"MCP_ADDR" default:":11547"`
}

// Load reads configuration from LOANS_* environment variables.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("LOANS", &c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &c, nil
}

// Level parses LogLevel, falling back to info. Debug forces debug level.
func (c *Config) Level() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init points the global zerolog logger at w as uncoloured console text,
// applies Level, and logs the effective settings at debug level. Front ends
// pass stderr so stdout stays reserved for rendered status text.
func (c *Config) Init(w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.Level())
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).With().Timestamp().Logger()

	log.Debug().
		Str("base_url", c.BaseURL).
		Dur("http_timeout", c.HTTPTimeout).
		Bool("member_lookup", c.MemberLookup).
		Str("log_level", c.Level().String()).
		Msg("configuration loaded")
}
