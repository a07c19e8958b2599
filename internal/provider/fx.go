package provider

import (
	"github.com/smallbiznis/fiscalgate/internal/config"
	"github.com/smallbiznis/fiscalgate/internal/provider/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg      config.Config
	Adapters []domain.Provider `group:"fiscal_providers"`
}

// NewRegistry builds the registry from the configured provider names.
// Adapters are contributed by the embedding application through the
// fiscal_providers group; a host that contributes none gets an empty
// registry instead of a startup failure.
func NewRegistry(p Params) (*domain.Registry, error) {
	if len(p.Adapters) == 0 {
		return domain.NewRegistry(nil)
	}
	return domain.NewRegistry(p.Cfg.Processing.Providers, p.Adapters...)
}

func logEnabled(reg *domain.Registry, log *zap.Logger) {
	log.Info("fiscal providers registered", zap.Strings("providers", reg.Names()))
}

var Module = fx.Module("provider",
	fx.Provide(NewRegistry),
	fx.Invoke(logEnabled),
)
