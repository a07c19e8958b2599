package migration

import (
	archivedomain "github.com/smallbiznis/fiscalgate/internal/archive/domain"
	auditdomain "github.com/smallbiznis/fiscalgate/internal/audit/domain"
	historydomain "github.com/smallbiznis/fiscalgate/internal/history/domain"
	recorddomain "github.com/smallbiznis/fiscalgate/internal/record/domain"
	retrydomain "github.com/smallbiznis/fiscalgate/internal/retryqueue/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module creates the five core tables on startup so the service is usable
// out of the box for local and self-hosted environments.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return conn.AutoMigrate(
			&recorddomain.InvoiceRecord{},
			&historydomain.HistoryEntry{},
			&auditdomain.AuditLog{},
			&retrydomain.RetryEntry{},
			&archivedomain.Document{},
		)
	}),
)
