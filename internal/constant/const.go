package constant

import (
	"time"
)

const (
	HttpTimeOut = 10 * time.Second
	Agent       = "stateproof-go"
)

// Chain types. The chain type is also the envelope domain.
const (
	Ethereum = "ethereum"
)

const (
	DefaultPort           = 3000
	DefaultBackendTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 64 << 10
	ShutdownTimeout       = 5 * time.Second
	AlarmSilence          = 5 * time.Minute
)
