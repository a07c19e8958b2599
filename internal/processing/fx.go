package processing

import (
	"github.com/smallbiznis/fiscalgate/internal/archive"
	"github.com/smallbiznis/fiscalgate/internal/audit"
	"github.com/smallbiznis/fiscalgate/internal/history"
	"github.com/smallbiznis/fiscalgate/internal/processing/service"
	"github.com/smallbiznis/fiscalgate/internal/record"
	"github.com/smallbiznis/fiscalgate/internal/retryqueue"
	"go.uber.org/fx"
)

var Module = fx.Module("processing.service",
	record.Module,
	history.Module,
	audit.Module,
	retryqueue.Module,
	archive.Module,
	fx.Provide(service.NewService),
)
