package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v2"
)

func TestParseDurationOrDefault(t *testing.T) {
	def := 30 * time.Second
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "empty string returns default", value: "", want: def},
		{name: "seconds", value: "45s", want: 45 * time.Second},
		{name: "minutes", value: "2m", want: 2 * time.Minute},
		{name: "hours", value: "1h", want: time.Hour},
		{name: "malformed returns default", value: "not-a-duration", want: def},
		{name: "zero returns default", value: "0s", want: def},
		{name: "negative returns default", value: "-5s", want: def},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDurationOrDefault(tt.value, def); got != tt.want {
				t.Errorf("parseDurationOrDefault(%q, %v) = %v, want %v", tt.value, def, got, tt.want)
			}
		})
	}
}

func TestServerTimeoutsDefaults(t *testing.T) {
	// An empty struct and a nil pointer both answer with the defaults, so
	// callers never have to check whether the config file set the block.
	for _, timeouts := range []*ServerTimeouts{nil, {}} {
		if got := timeouts.GetReadTimeout(); got != DefaultReadTimeout {
			t.Errorf("GetReadTimeout() = %v, want %v", got, DefaultReadTimeout)
		}
		if got := timeouts.GetReadHeaderTimeout(); got != DefaultReadHeaderTimeout {
			t.Errorf("GetReadHeaderTimeout() = %v, want %v", got, DefaultReadHeaderTimeout)
		}
		if got := timeouts.GetWriteTimeout(); got != DefaultWriteTimeout {
			t.Errorf("GetWriteTimeout() = %v, want %v", got, DefaultWriteTimeout)
		}
		if got := timeouts.GetIdleTimeout(); got != DefaultIdleTimeout {
			t.Errorf("GetIdleTimeout() = %v, want %v", got, DefaultIdleTimeout)
		}
		if got := timeouts.GetMaxHeaderBytes(); got != DefaultMaxHeaderBytes {
			t.Errorf("GetMaxHeaderBytes() = %v, want %v", got, DefaultMaxHeaderBytes)
		}
	}
}

func TestServerTimeoutsWriteTimeoutDisabledByDefault(t *testing.T) {
	// Delayed individual delivery holds the request open for the whole
	// send, so there must be no write deadline unless one is configured.
	if DefaultWriteTimeout != 0 {
		t.Fatalf("DefaultWriteTimeout = %v, want 0 (disabled)", DefaultWriteTimeout)
	}
	timeouts := &ServerTimeouts{WriteTimeout: "90s"}
	if got := timeouts.GetWriteTimeout(); got != 90*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want 90s", got)
	}
}

func TestServerTimeoutsCustomValues(t *testing.T) {
	timeouts := &ServerTimeouts{
		ReadTimeout:       "45s",
		ReadHeaderTimeout: "5s",
		IdleTimeout:       "3m",
		MaxHeaderBytes:    2 << 20,
	}
	if got := timeouts.GetReadTimeout(); got != 45*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 45s", got)
	}
	if got := timeouts.GetReadHeaderTimeout(); got != 5*time.Second {
		t.Errorf("GetReadHeaderTimeout() = %v, want 5s", got)
	}
	if got := timeouts.GetIdleTimeout(); got != 3*time.Minute {
		t.Errorf("GetIdleTimeout() = %v, want 3m", got)
	}
	if got := timeouts.GetMaxHeaderBytes(); got != 2<<20 {
		t.Errorf("GetMaxHeaderBytes() = %v, want %v", got, 2<<20)
	}
}

func TestServerTimeoutsInvalidValuesFallBack(t *testing.T) {
	timeouts := &ServerTimeouts{
		ReadTimeout:    "bad",
		IdleTimeout:    "-1m",
		MaxHeaderBytes: -1,
	}
	if got := timeouts.GetReadTimeout(); got != DefaultReadTimeout {
		t.Errorf("GetReadTimeout() = %v, want %v", got, DefaultReadTimeout)
	}
	if got := timeouts.GetIdleTimeout(); got != DefaultIdleTimeout {
		t.Errorf("GetIdleTimeout() = %v, want %v", got, DefaultIdleTimeout)
	}
	if got := timeouts.GetMaxHeaderBytes(); got != DefaultMaxHeaderBytes {
		t.Errorf("GetMaxHeaderBytes() = %v, want %v", got, DefaultMaxHeaderBytes)
	}
}

func TestServerGetServerTimeouts(t *testing.T) {
	t.Run("nil block yields usable defaults", func(t *testing.T) {
		s := Server{}
		got := s.GetServerTimeouts()
		if got == nil {
			t.Fatal("GetServerTimeouts() returned nil")
		}
		if got.GetReadTimeout() != DefaultReadTimeout {
			t.Errorf("GetReadTimeout() = %v, want %v", got.GetReadTimeout(), DefaultReadTimeout)
		}
	})

	t.Run("configured block returned as-is", func(t *testing.T) {
		custom := &ServerTimeouts{ReadTimeout: "5s"}
		s := Server{Timeouts: custom}
		if got := s.GetServerTimeouts(); got != custom {
			t.Error("expected the configured pointer back")
		}
	})
}

func TestServerGetShutdownTimeout(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "default when empty", value: "", want: DefaultShutdownTimeout},
		{name: "custom value", value: "60s", want: 60 * time.Second},
		{name: "invalid falls back", value: "soon", want: DefaultShutdownTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Server{ShutdownTimeout: tt.value}
			if got := s.GetShutdownTimeout(); got != tt.want {
				t.Errorf("GetShutdownTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServerTimeoutsFromYAML(t *testing.T) {
	raw := `
server:
  listenAddress: ":8080"
  timeouts:
    readTimeout: "45s"
    readHeaderTimeout: "15s"
    writeTimeout: "90s"
    idleTimeout: "3m"
    maxHeaderBytes: 2097152
  shutdownTimeout: "60s"
`
	var cfg Config
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.Server.Timeouts == nil {
		t.Fatal("Timeouts is nil after unmarshal")
	}
	if got := cfg.Server.Timeouts.GetReadTimeout(); got != 45*time.Second {
		t.Errorf("ReadTimeout = %v, want 45s", got)
	}
	if got := cfg.Server.Timeouts.GetReadHeaderTimeout(); got != 15*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, want 15s", got)
	}
	if got := cfg.Server.Timeouts.GetWriteTimeout(); got != 90*time.Second {
		t.Errorf("WriteTimeout = %v, want 90s", got)
	}
	if got := cfg.Server.Timeouts.GetIdleTimeout(); got != 3*time.Minute {
		t.Errorf("IdleTimeout = %v, want 3m", got)
	}
	if got := cfg.Server.Timeouts.GetMaxHeaderBytes(); got != 2097152 {
		t.Errorf("MaxHeaderBytes = %v, want 2097152", got)
	}
	if got := cfg.Server.GetShutdownTimeout(); got != 60*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 60s", got)
	}
}
