package archive

import (
	"github.com/smallbiznis/fiscalgate/internal/archive/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("archive",
	fx.Provide(repository.Provide),
)
