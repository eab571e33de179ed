package config

import (
	"log/slog"

	"github.com/m-mizutani/nibbler/pkg/registry"
	"github.com/m-mizutani/nibbler/pkg/repository/file"
	"github.com/urfave/cli/v3"
)

type Registry struct {
	path string
}

func (x *Registry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "registry-path",
			Usage:       "Path of the installation registry file",
			Category:    "Registry",
			Value:       "nibbler_registry.json",
			Destination: &x.path,
			Sources:     cli.EnvVars("NIBBLER_REGISTRY_PATH"),
		},
	}
}

func (x *Registry) New() *registry.Registry {
	return registry.New(file.New(x.path))
}

func (x *Registry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("path", x.path),
	)
}
