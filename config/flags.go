// Copyright 2021 Compass Systems
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	log "github.com/ChainSafe/log15"
	"github.com/mapprotocol/stateproof/internal/constant"
	"github.com/urfave/cli/v2"
)

var (
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file",
	}

	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Supports levels crit (silent) to trce (trace)",
		Value: log.LvlInfo.String(),
	}
)

// Serve flags. When set they override the configuration file.
var (
	PortFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port to serve state proofs on",
		Value: constant.DefaultPort,
	}

	GrpcPortFlag = &cli.IntFlag{
		Name:  "grpcPort",
		Usage: "Port to serve the gRPC API on, 0 disables it",
	}

	TimeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "Timeout of a single backend call, 0 disables it",
		Value: constant.DefaultBackendTimeout,
	}
)

// Metrics flags
var (
	MetricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "Enables metric server",
	}

	MetricsPort = &cli.IntFlag{
		Name:  "metricsPort",
		Usage: "Port to serve metrics on",
		Value: 8001,
	}
)

// Query flags
var (
	ServiceFlag = &cli.StringFlag{
		Name:  "service",
		Usage: "URL of a running state proof service",
		Value: "http://127.0.0.1:3000/",
	}

	GrpcTargetFlag = &cli.StringFlag{
		Name:  "grpc",
		Usage: "host:port of the gRPC API; used instead of --service when set",
	}

	AddressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "Account address (0x-prefixed)",
		Required: true,
	}

	EndpointFlag = &cli.StringFlag{
		Name:     "ethereumUrl",
		Usage:    "RPC URL of the Ethereum node the proof is read from",
		Required: true,
	}

	HeightFlag = &cli.Uint64Flag{
		Name:     "height",
		Usage:    "Block number",
		Required: true,
	}

	KeyFlag = &cli.StringFlag{
		Name:  "key",
		Usage: "Storage slot (0x-prefixed, 32 bytes); empty requests an account proof",
	}

	EncodingFlag = &cli.StringFlag{
		Name:  "encoding",
		Usage: "Envelope encoding to request: json or cramberry",
		Value: "json",
	}
)
