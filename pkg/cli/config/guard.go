package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/nibbler/pkg/guard"
	"github.com/urfave/cli/v3"
)

type Guard struct {
	allowedHosts  []string
	maxRequests   int64
	window        time.Duration
	maxViolations int64
	blockDuration time.Duration
}

func (x *Guard) Flags() []cli.Flag {
	defaults := guard.DefaultConfig()
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "guard-allowed-host",
			Usage:       "Hosts accepted by the trigger API (empty disables host filtering)",
			Category:    "Guard",
			Destination: &x.allowedHosts,
			Sources:     cli.EnvVars("NIBBLER_GUARD_ALLOWED_HOST"),
		},
		&cli.Int64Flag{
			Name:        "guard-max-requests",
			Usage:       "Requests allowed per caller within the window",
			Category:    "Guard",
			Value:       int64(defaults.MaxRequests),
			Destination: &x.maxRequests,
			Sources:     cli.EnvVars("NIBBLER_GUARD_MAX_REQUESTS"),
		},
		&cli.DurationFlag{
			Name:        "guard-window",
			Usage:       "Sliding window of the rate limit",
			Category:    "Guard",
			Value:       defaults.Window,
			Destination: &x.window,
			Sources:     cli.EnvVars("NIBBLER_GUARD_WINDOW"),
		},
		&cli.Int64Flag{
			Name:        "guard-max-violations",
			Usage:       "Rate violations before a caller is blocked",
			Category:    "Guard",
			Value:       int64(defaults.MaxViolations),
			Destination: &x.maxViolations,
			Sources:     cli.EnvVars("NIBBLER_GUARD_MAX_VIOLATIONS"),
		},
		&cli.DurationFlag{
			Name:        "guard-block-duration",
			Usage:       "How long a blocked caller stays blocked",
			Category:    "Guard",
			Value:       defaults.BlockDuration,
			Destination: &x.blockDuration,
			Sources:     cli.EnvVars("NIBBLER_GUARD_BLOCK_DURATION"),
		},
	}
}

func (x *Guard) New() *guard.Guard {
	cfg := guard.DefaultConfig()
	cfg.AllowedHosts = x.allowedHosts
	cfg.MaxRequests = int(x.maxRequests)
	cfg.Window = x.window
	cfg.MaxViolations = int(x.maxViolations)
	cfg.BlockDuration = x.blockDuration
	return guard.New(cfg)
}

func (x *Guard) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("allowedHosts", x.allowedHosts),
		slog.Int64("maxRequests", x.maxRequests),
		slog.Duration("window", x.window),
		slog.Int64("maxViolations", x.maxViolations),
		slog.Duration("blockDuration", x.blockDuration),
	)
}
