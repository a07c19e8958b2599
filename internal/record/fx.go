package record

import (
	"github.com/smallbiznis/fiscalgate/internal/record/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("record",
	fx.Provide(repository.Provide),
)
