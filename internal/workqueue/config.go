package workqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups all tunables. Values are taken from environment variables with
// the prefix "LOANS_QUEUE_". Example: LOANS_QUEUE_CAPACITY=32 .
type Config struct {
	Capacity       int           `envconfig:"CAPACITY"        default:"16"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`

	// ErrorHandler is called on the worker goroutine after a Job returns a
	// non-nil error, panics, or is skipped because its context ended.
	ErrorHandler func(error) `envconfig:"-"`
}

// LoadConfig populates Config from environment variables (prefix LOANS_QUEUE_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("LOANS_QUEUE", &c)
}
