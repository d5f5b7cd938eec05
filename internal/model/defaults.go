package model

import "github.com/tinytelemetry/abacus/internal/calc"

// Shared defaults used by both the TUI and API binaries.
const (
	DefaultErrorDelay    = calc.DefaultErrorDelay
	DefaultCacheSize     = calc.DefaultCacheSize
	DefaultSkin          = "default"
	DefaultTapeSize      = 100
	DefaultLogLevel      = "info"
	DefaultAPIPort       = 3000
	DefaultMaxReplayKeys = 1000
)
