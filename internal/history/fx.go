package history

import (
	"github.com/smallbiznis/fiscalgate/internal/history/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("history",
	fx.Provide(repository.Provide),
)
