package config

import (
	"github.com/fraiseql/fraiseql-go/log"
)

// Config carries the cross-cutting settings shared by the compiler, the
// GraphQL adapter and the execution layer.
type Config interface {
	Naming() NamingConvention
	Logger() log.Logger
}

type defaultConfig struct {
	naming NamingConvention
	logger log.Logger
}

// New returns a Config with the default naming convention and the given
// logger. A nil logger falls back to a no-op logger.
func New(logger log.Logger) Config {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &defaultConfig{
		naming: NewDefaultNaming(),
		logger: logger,
	}
}

func (c *defaultConfig) Naming() NamingConvention { return c.naming }
func (c *defaultConfig) Logger() log.Logger       { return c.logger }
