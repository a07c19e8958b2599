package retryqueue

import (
	"github.com/smallbiznis/fiscalgate/internal/retryqueue/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("retryqueue",
	fx.Provide(repository.Provide),
)
