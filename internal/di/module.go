package di

import (
	"github.com/merchware/creditledger/internal/adapter/platform"
	"github.com/merchware/creditledger/internal/app"
	"github.com/merchware/creditledger/internal/config"
	"github.com/merchware/creditledger/internal/logger"
	"github.com/merchware/creditledger/internal/pkg/signature"
	"github.com/merchware/creditledger/internal/server/http/handlers"
	"github.com/merchware/creditledger/internal/server/http/router"
	"github.com/merchware/creditledger/internal/storage/postgres"
	"github.com/merchware/creditledger/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		signature.Module,
		postgres.Module,
		platform.Module,
		usecase.Module,
		fx.Provide(func(client platform.Client) app.PlatformNotifier { return client }),
		fx.Provide(func(f *app.CreditFacade) handlers.CreditFacade { return f }),
		fx.Provide(func(s *postgres.Storage) handlers.HealthChecker { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
