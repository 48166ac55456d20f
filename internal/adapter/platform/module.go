package platform

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchware/creditledger/internal/config"
)

// Module exposes the platform client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.PlatformAddress == "" {
		return NoopClient{}, nil
	}
	return NewHTTPClient(p.Config.PlatformAddress, p.Logger)
}
