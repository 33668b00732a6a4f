package config

import "time"

// Defaults for the HTTP server deadlines. The write timeout is disabled on
// purpose: delayed individual delivery keeps the request open until the last
// recipient is sent, which can legitimately take minutes.
const (
	DefaultReadTimeout                     = 30 * time.Second
	DefaultReadHeaderTimeout               = 10 * time.Second
	DefaultWriteTimeout      time.Duration = 0
	DefaultIdleTimeout                     = 120 * time.Second
	DefaultMaxHeaderBytes                  = 1 << 20

	// DefaultShutdownTimeout is how long in-flight requests may drain on
	// SIGTERM before the process exits anyway.
	DefaultShutdownTimeout = 30 * time.Second
)

// ServerTimeouts tunes the deadlines of the HTTP server. All durations are
// Go duration strings ("30s", "2m"); empty, malformed or non-positive values
// fall back to the defaults.
type ServerTimeouts struct {
	// ReadTimeout bounds reading a full request including the body.
	ReadTimeout string `yaml:"readTimeout"`
	// ReadHeaderTimeout bounds reading the request headers and guards
	// against slow-header clients.
	ReadHeaderTimeout string `yaml:"readHeaderTimeout"`
	// WriteTimeout bounds handler execution plus the response write.
	// Setting it cuts off delayed individual deliveries that outlive it,
	// so only set a value on deployments that never use delaySeconds.
	WriteTimeout string `yaml:"writeTimeout"`
	// IdleTimeout bounds how long a keep-alive connection may sit idle.
	IdleTimeout string `yaml:"idleTimeout"`
	// MaxHeaderBytes caps the request header size in bytes.
	MaxHeaderBytes int `yaml:"maxHeaderBytes"`
}

// The getters are nil-safe so callers can use Server.Timeouts directly
// without checking whether the config file set the block.

func (t *ServerTimeouts) GetReadTimeout() time.Duration {
	if t == nil {
		return DefaultReadTimeout
	}
	return parseDurationOrDefault(t.ReadTimeout, DefaultReadTimeout)
}

func (t *ServerTimeouts) GetReadHeaderTimeout() time.Duration {
	if t == nil {
		return DefaultReadHeaderTimeout
	}
	return parseDurationOrDefault(t.ReadHeaderTimeout, DefaultReadHeaderTimeout)
}

func (t *ServerTimeouts) GetWriteTimeout() time.Duration {
	if t == nil {
		return DefaultWriteTimeout
	}
	return parseDurationOrDefault(t.WriteTimeout, DefaultWriteTimeout)
}

func (t *ServerTimeouts) GetIdleTimeout() time.Duration {
	if t == nil {
		return DefaultIdleTimeout
	}
	return parseDurationOrDefault(t.IdleTimeout, DefaultIdleTimeout)
}

func (t *ServerTimeouts) GetMaxHeaderBytes() int {
	if t == nil || t.MaxHeaderBytes <= 0 {
		return DefaultMaxHeaderBytes
	}
	return t.MaxHeaderBytes
}

// GetServerTimeouts never returns nil so the getters can be chained.
func (s *Server) GetServerTimeouts() *ServerTimeouts {
	if s.Timeouts == nil {
		return &ServerTimeouts{}
	}
	return s.Timeouts
}

// GetShutdownTimeout returns the drain window for graceful shutdown.
func (s *Server) GetShutdownTimeout() time.Duration {
	return parseDurationOrDefault(s.ShutdownTimeout, DefaultShutdownTimeout)
}

// parseDurationOrDefault parses value as a duration string and falls back to
// def when value is empty, malformed or not positive.
func parseDurationOrDefault(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
