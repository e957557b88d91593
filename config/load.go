package config

import (
	"context"
	"log/slog"

	"github.com/sethvargo/go-envconfig"
)

func Load(ctx context.Context) App {
	var cfg App
	if err := envconfig.Process(ctx, &cfg); err != nil {
		slog.Error("failed to load configuration", "err", err)
		panic(err)
	}
	return cfg
}
