package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	archivedomain "github.com/smallbiznis/fiscalgate/internal/archive/domain"
	auditdomain "github.com/smallbiznis/fiscalgate/internal/audit/domain"
	"github.com/smallbiznis/fiscalgate/internal/clock"
	"github.com/smallbiznis/fiscalgate/internal/config"
	historydomain "github.com/smallbiznis/fiscalgate/internal/history/domain"
	obsmetrics "github.com/smallbiznis/fiscalgate/internal/observability/metrics"
	"github.com/smallbiznis/fiscalgate/internal/processing/domain"
	providerdomain "github.com/smallbiznis/fiscalgate/internal/provider/domain"
	recorddomain "github.com/smallbiznis/fiscalgate/internal/record/domain"
	retrydomain "github.com/smallbiznis/fiscalgate/internal/retryqueue/domain"
	pkgdb "github.com/smallbiznis/fiscalgate/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Cfg   config.Config

	Records   recorddomain.Repository
	History   historydomain.Repository
	Audit     auditdomain.Repository
	Retries   retrydomain.Repository
	Documents archivedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node

	maxRetries int
	baseDelay  time.Duration

	records   recorddomain.Repository
	history   historydomain.Repository
	audit     auditdomain.Repository
	retries   retrydomain.Repository
	documents archivedomain.Repository

	metrics *obsmetrics.ProcessingMetrics
}

func NewService(p Params) domain.Service {
	maxRetries := p.Cfg.Processing.MaxRetries
	if maxRetries <= 0 {
		maxRetries = retrydomain.DefaultMaxRetries
	}
	baseDelay := time.Duration(p.Cfg.Processing.RetryBaseDelayMin) * time.Minute
	if baseDelay <= 0 {
		baseDelay = 30 * time.Minute
	}

	return &Service{
		db:         p.DB,
		log:        p.Log.Named("processing.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		records:    p.Records,
		history:    p.History,
		audit:      p.Audit,
		retries:    p.Retries,
		documents:  p.Documents,
		metrics:    obsmetrics.Processing(),
	}
}

func (s *Service) Intake(ctx context.Context, req domain.IntakeRequest) (domain.IntakeResult, error) {
	if err := validateIntake(&req); err != nil {
		return domain.IntakeResult{}, err
	}

	res, err := s.intakeOnce(ctx, req)
	if err != nil && pkgdb.IsDuplicateKeyErr(err) {
		// Race loser: another intake created the record between our lookup
		// and insert. Fall back to the duplicate path instead of erroring.
		res, err = s.duplicatePath(ctx, req)
	}
	if err != nil {
		return domain.IntakeResult{}, err
	}

	if res.Duplicate {
		s.metrics.IncIntake(req.Provider, obsmetrics.IntakeResultDuplicate)
		s.log.Info("duplicate submission detected",
			zap.String("source_id", req.SourceID),
			zap.String("provider", req.Provider),
			zap.String("status", string(res.Record.Status)),
		)
	} else {
		s.metrics.IncIntake(req.Provider, obsmetrics.IntakeResultCreated)
		s.log.Info("invoice record created",
			zap.String("source_id", req.SourceID),
			zap.String("provider", req.Provider),
		)
	}
	return res, nil
}

func (s *Service) intakeOnce(ctx context.Context, req domain.IntakeRequest) (domain.IntakeResult, error) {
	var res domain.IntakeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.records.FindBySource(ctx, tx, req.SourceID, req.Provider)
		if err != nil {
			return err
		}
		if existing != nil {
			res = domain.IntakeResult{Record: existing, Duplicate: true}
			return s.auditDuplicate(ctx, tx, existing, req.Actor)
		}

		now := s.clock.Now().UTC()
		rec := &recorddomain.InvoiceRecord{
			ID:            s.genID.Generate(),
			SourceID:      req.SourceID,
			Provider:      req.Provider,
			SourceKind:    req.SourceKind,
			Status:        recorddomain.StatusPending,
			CustomerID:    req.CustomerID,
			CustomerEmail: req.CustomerEmail,
			CustomerTaxID: req.CustomerTaxID,
			Amount:        req.Amount,
			Currency:      req.Currency,
			InvoiceDate:   req.InvoiceDate.UTC(),
			Metadata:      datatypes.JSONMap(req.Metadata),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.records.Create(ctx, tx, rec); err != nil {
			return err
		}

		entry := &historydomain.HistoryEntry{
			ID:       s.genID.Generate(),
			RecordID: rec.ID,
			SourceID: rec.SourceID,
			Provider: rec.Provider,
			Action:   "created",
			Status:   historydomain.EntryStatusSuccess,
			RequestData: datatypes.JSONMap{
				"source_id":    rec.SourceID,
				"source_kind":  string(rec.SourceKind),
				"amount":       rec.Amount.String(),
				"currency":     rec.Currency,
				"invoice_date": rec.InvoiceDate.Format(time.RFC3339),
			},
			StartedAt:   now,
			CompletedAt: &now,
			InitiatedBy: actorID(req.Actor),
			IPAddress:   req.Actor.IPAddress,
			UserAgent:   req.Actor.UserAgent,
		}
		if err := s.history.Start(ctx, tx, entry); err != nil {
			return err
		}

		if err := s.audit.Insert(ctx, tx, &auditdomain.AuditLog{
			ID:           s.genID.Generate(),
			EventType:    auditdomain.EventTypeInvoiceProcessing,
			ResourceType: auditdomain.ResourceTypeInvoice,
			ResourceID:   rec.SourceID,
			Action:       "created",
			Description:  fmt.Sprintf("new invoice record created for processing with %s", rec.Provider),
			Metadata: datatypes.JSONMap{
				"provider": rec.Provider,
				"amount":   rec.Amount.String(),
				"currency": rec.Currency,
			},
			ActorID:   actorID(req.Actor),
			IPAddress: req.Actor.IPAddress,
			UserAgent: req.Actor.UserAgent,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		res = domain.IntakeResult{Record: rec, Duplicate: false}
		return nil
	})
	if err != nil {
		return domain.IntakeResult{}, err
	}
	return res, nil
}

// duplicatePath records the duplicate sighting in a fresh transaction; the
// losing insert's transaction has already rolled back at this point.
func (s *Service) duplicatePath(ctx context.Context, req domain.IntakeRequest) (domain.IntakeResult, error) {
	var res domain.IntakeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.records.FindBySource(ctx, tx, req.SourceID, req.Provider)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrRecordNotFound
		}
		res = domain.IntakeResult{Record: existing, Duplicate: true}
		return s.auditDuplicate(ctx, tx, existing, req.Actor)
	})
	if err != nil {
		return domain.IntakeResult{}, err
	}
	return res, nil
}

func (s *Service) auditDuplicate(ctx context.Context, tx *gorm.DB, rec *recorddomain.InvoiceRecord, actor domain.Actor) error {
	return s.audit.Insert(ctx, tx, &auditdomain.AuditLog{
		ID:           s.genID.Generate(),
		EventType:    auditdomain.EventTypeInvoiceProcessing,
		ResourceType: auditdomain.ResourceTypeInvoice,
		ResourceID:   rec.SourceID,
		Action:       "duplicate_detected",
		Description:  fmt.Sprintf("duplicate submission detected for provider %s", rec.Provider),
		Metadata: datatypes.JSONMap{
			"provider":           rec.Provider,
			"existing_record_id": rec.ID.String(),
			"status":             string(rec.Status),
		},
		ActorID:   actorID(actor),
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
		CreatedAt: s.clock.Now().UTC(),
	})
}

func (s *Service) ApplyResult(ctx context.Context, recordID snowflake.ID, result providerdomain.Result, action string) (*recorddomain.InvoiceRecord, error) {
	if action == "" {
		action = "create_invoice"
	}

	var rec *recorddomain.InvoiceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = s.applyResultTx(ctx, tx, recordID, result, action, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.observeResult(rec.Provider, result)
	if !result.Success {
		s.log.Warn("provider submission failed",
			zap.String("source_id", rec.SourceID),
			zap.String("provider", rec.Provider),
			zap.Int("attempts", rec.Attempts),
			zap.String("error", result.ErrorMessage),
		)
	}
	return rec, nil
}

// applyResultTx advances the record state machine inside the caller's
// transaction. scheduleRetry controls whether the failure path touches the
// retry queue; the resolve path manages its own entry.
func (s *Service) applyResultTx(ctx context.Context, tx *gorm.DB, recordID snowflake.ID, result providerdomain.Result, action string, scheduleRetry bool) (*recorddomain.InvoiceRecord, error) {
	now := s.clock.Now().UTC()

	rec, err := s.records.FindByID(ctx, tx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: record %d", domain.ErrRecordNotFound, recordID)
	}

	entry := &historydomain.HistoryEntry{
		ID:          s.genID.Generate(),
		RecordID:    rec.ID,
		SourceID:    rec.SourceID,
		Provider:    rec.Provider,
		Action:      action,
		Status:      historydomain.EntryStatusProcessing,
		RequestData: datatypes.JSONMap{"action": action},
		StartedAt:   now,
		InitiatedBy: auditdomain.ActorSystem,
	}
	if err := s.history.Start(ctx, tx, entry); err != nil {
		return nil, err
	}

	next := recorddomain.StatusFailed
	if result.Success {
		next = recorddomain.StatusCompleted
	}
	if !rec.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, rec.Status, next)
	}

	rec.Attempts++
	rec.Status = next
	rec.UpdatedAt = now

	if result.Success {
		rec.ProviderReferenceID = result.ExternalID
		if rec.ProcessedAt == nil {
			processedAt := now
			rec.ProcessedAt = &processedAt
		}
	} else {
		rec.LastError = result.ErrorMessage
	}
	if err := s.records.Update(ctx, tx, rec); err != nil {
		return nil, err
	}

	completedAt := s.clock.Now().UTC()
	entry.CompletedAt = &completedAt
	entry.DurationMs = completedAt.Sub(entry.StartedAt).Milliseconds()
	if result.Success {
		entry.Status = historydomain.EntryStatusSuccess
		entry.ResponseData = datatypes.JSONMap(result.Response)
	} else {
		entry.Status = historydomain.EntryStatusFailed
		entry.ErrorMessage = result.ErrorMessage
	}
	if err := s.history.Complete(ctx, tx, entry); err != nil {
		return nil, err
	}

	if result.Success {
		if err := s.completeSuccess(ctx, tx, rec, result, now, scheduleRetry); err != nil {
			return nil, err
		}
	} else {
		if err := s.completeFailure(ctx, tx, rec, result, now, scheduleRetry); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

func (s *Service) completeSuccess(ctx context.Context, tx *gorm.DB, rec *recorddomain.InvoiceRecord, result providerdomain.Result, now time.Time, resolveEntry bool) error {
	if err := s.audit.Insert(ctx, tx, &auditdomain.AuditLog{
		ID:           s.genID.Generate(),
		EventType:    auditdomain.EventTypeInvoiceProcessing,
		ResourceType: auditdomain.ResourceTypeInvoice,
		ResourceID:   rec.SourceID,
		Action:       "completed",
		Description:  fmt.Sprintf("invoice successfully processed by %s", rec.Provider),
		Metadata: datatypes.JSONMap{
			"provider":              rec.Provider,
			"provider_reference_id": rec.ProviderReferenceID,
			"attempts":              rec.Attempts,
		},
		ActorID:   auditdomain.ActorSystem,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if result.Document != nil {
		doc := archivedomain.NewDocument(
			s.genID.Generate(),
			rec.ID,
			rec.SourceID,
			rec.Provider,
			result.Document.Type,
			result.Document.Content,
			now,
		)
		stored, err := s.documents.Store(ctx, tx, doc)
		if err != nil {
			return err
		}
		if stored {
			s.metrics.IncDocumentStored()
		}
	}

	if resolveEntry {
		active, err := s.retries.ActiveByRecord(ctx, tx, rec.ID)
		if err != nil {
			return err
		}
		if active != nil {
			active.Completed = true
			active.Active = false
			active.UpdatedAt = now
			if err := s.retries.Update(ctx, tx, active); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) completeFailure(ctx context.Context, tx *gorm.DB, rec *recorddomain.InvoiceRecord, result providerdomain.Result, now time.Time, scheduleRetry bool) error {
	if err := s.audit.Insert(ctx, tx, &auditdomain.AuditLog{
		ID:           s.genID.Generate(),
		EventType:    auditdomain.EventTypeInvoiceProcessing,
		ResourceType: auditdomain.ResourceTypeInvoice,
		ResourceID:   rec.SourceID,
		Action:       "failed",
		Description:  fmt.Sprintf("invoice processing failed for %s", rec.Provider),
		Metadata: datatypes.JSONMap{
			"provider":   rec.Provider,
			"error":      result.ErrorMessage,
			"error_kind": result.ErrorKind,
			"attempts":   rec.Attempts,
		},
		ActorID:   auditdomain.ActorSystem,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if !scheduleRetry {
		return nil
	}

	active, err := s.retries.ActiveByRecord(ctx, tx, rec.ID)
	if err != nil {
		return err
	}

	if rec.Attempts >= s.maxRetries {
		// Retry budget exhausted: FAILED is terminal for this record.
		if active != nil {
			active.Active = false
			active.UpdatedAt = now
			if err := s.retries.Update(ctx, tx, active); err != nil {
				return err
			}
		}
		s.metrics.IncRetryExhausted(rec.Provider)
		return nil
	}

	retryAfter := now.Add(s.retryDelay(rec.Attempts))
	if active != nil {
		active.RetryAfter = retryAfter
		active.LastError = result.ErrorMessage
		active.ErrorCode = result.ErrorKind
		active.UpdatedAt = now
		if err := s.retries.Update(ctx, tx, active); err != nil {
			return err
		}
	} else {
		if err := s.retries.Insert(ctx, tx, &retrydomain.RetryEntry{
			ID:         s.genID.Generate(),
			RecordID:   rec.ID,
			SourceID:   rec.SourceID,
			Provider:   rec.Provider,
			MaxRetries: s.maxRetries,
			RetryAfter: retryAfter,
			LastError:  result.ErrorMessage,
			ErrorCode:  result.ErrorKind,
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
	}
	s.metrics.IncRetryEnqueued(rec.Provider)
	return nil
}

func (s *Service) Cancel(ctx context.Context, recordID snowflake.ID, reason string, actor domain.Actor) (*recorddomain.InvoiceRecord, error) {
	var rec *recorddomain.InvoiceRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now().UTC()

		var err error
		rec, err = s.records.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: record %d", domain.ErrRecordNotFound, recordID)
		}
		if !rec.Status.CanTransitionTo(recorddomain.StatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, rec.Status, recorddomain.StatusCancelled)
		}

		rec.Status = recorddomain.StatusCancelled
		rec.UpdatedAt = now
		if err := s.records.Update(ctx, tx, rec); err != nil {
			return err
		}

		if err := s.history.Start(ctx, tx, &historydomain.HistoryEntry{
			ID:          s.genID.Generate(),
			RecordID:    rec.ID,
			SourceID:    rec.SourceID,
			Provider:    rec.Provider,
			Action:      "cancelled",
			Status:      historydomain.EntryStatusSuccess,
			RequestData: datatypes.JSONMap{"reason": reason},
			StartedAt:   now,
			CompletedAt: &now,
			InitiatedBy: actorID(actor),
			IPAddress:   actor.IPAddress,
			UserAgent:   actor.UserAgent,
		}); err != nil {
			return err
		}

		if err := s.audit.Insert(ctx, tx, &auditdomain.AuditLog{
			ID:           s.genID.Generate(),
			EventType:    auditdomain.EventTypeInvoiceProcessing,
			ResourceType: auditdomain.ResourceTypeInvoice,
			ResourceID:   rec.SourceID,
			Action:       "cancelled",
			Description:  reason,
			Metadata:     datatypes.JSONMap{"provider": rec.Provider},
			ActorID:      actorID(actor),
			IPAddress:    actor.IPAddress,
			UserAgent:    actor.UserAgent,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		active, err := s.retries.ActiveByRecord(ctx, tx, rec.ID)
		if err != nil {
			return err
		}
		if active != nil {
			active.Active = false
			active.UpdatedAt = now
			return s.retries.Update(ctx, tx, active)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) SweepDueRetries(ctx context.Context, provider string) ([]domain.RetryCandidate, error) {
	var candidates []domain.RetryCandidate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now().UTC()
		entries, err := s.retries.Due(ctx, tx, provider, now)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			rec, err := s.records.FindByID(ctx, tx, entry.RecordID)
			if err != nil {
				return err
			}
			if rec == nil || rec.Status.Terminal() {
				// Orphaned or already-settled schedule; retire it.
				entry.Active = false
				entry.UpdatedAt = now
				if err := s.retries.Update(ctx, tx, entry); err != nil {
					return err
				}
				continue
			}

			if rec.Status != recorddomain.StatusRetry {
				if !rec.Status.CanTransitionTo(recorddomain.StatusRetry) {
					continue
				}
				rec.Status = recorddomain.StatusRetry
				rec.UpdatedAt = now
				if err := s.records.Update(ctx, tx, rec); err != nil {
					return err
				}
				if err := s.audit.Insert(ctx, tx, &auditdomain.AuditLog{
					ID:           s.genID.Generate(),
					EventType:    auditdomain.EventTypeInvoiceProcessing,
					ResourceType: auditdomain.ResourceTypeInvoice,
					ResourceID:   rec.SourceID,
					Action:       "retry_scheduled",
					Description:  fmt.Sprintf("record surfaced for retry %d with %s", entry.RetryCount+1, rec.Provider),
					Metadata: datatypes.JSONMap{
						"provider":    rec.Provider,
						"retry_count": entry.RetryCount,
						"attempts":    rec.Attempts,
					},
					ActorID:   auditdomain.ActorSystem,
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}

			candidates = append(candidates, domain.RetryCandidate{
				EntryID:    entry.ID,
				RecordID:   rec.ID,
				SourceID:   rec.SourceID,
				Provider:   rec.Provider,
				RetryCount: entry.RetryCount,
				Attempts:   rec.Attempts,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		s.log.Info("retry sweep surfaced due entries",
			zap.String("provider", provider),
			zap.Int("count", len(candidates)),
		)
	}
	return candidates, nil
}

func (s *Service) ResolveRetry(ctx context.Context, entryID snowflake.ID, result providerdomain.Result) (*recorddomain.InvoiceRecord, error) {
	var (
		rec       *recorddomain.InvoiceRecord
		exhausted bool
		requeued  bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.retries.FindByID(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%w: entry %d", domain.ErrRetryEntryNotFound, entryID)
		}

		rec, err = s.applyResultTx(ctx, tx, entry.RecordID, result, "retry", false)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		entry.RetryCount++
		entry.UpdatedAt = now

		if result.Success {
			entry.Completed = true
			entry.Active = false
		} else {
			entry.LastError = result.ErrorMessage
			entry.ErrorCode = result.ErrorKind
			if entry.RetryCount >= entry.MaxRetries || rec.Attempts >= s.maxRetries {
				entry.Active = false
				exhausted = true
			} else {
				// The record's attempt counter is authoritative for backoff;
				// the entry's retry_count only tracks scheduling.
				entry.RetryAfter = now.Add(s.retryDelay(rec.Attempts))
				requeued = true
			}
		}
		return s.retries.Update(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.observeResult(rec.Provider, result)
	if exhausted {
		s.metrics.IncRetryExhausted(rec.Provider)
	}
	if requeued {
		s.metrics.IncRetryEnqueued(rec.Provider)
	}
	return rec, nil
}

func (s *Service) FullHistory(ctx context.Context, sourceID, provider string) (domain.FullHistoryResponse, error) {
	recs, err := s.records.ListBySource(ctx, s.db, sourceID, provider)
	if err != nil {
		return domain.FullHistoryResponse{}, err
	}
	if len(recs) == 0 {
		return domain.FullHistoryResponse{}, fmt.Errorf("%w: source %s", domain.ErrRecordNotFound, sourceID)
	}

	stories := make([]domain.RecordStory, 0, len(recs))
	for _, rec := range recs {
		entries, err := s.history.ListByRecord(ctx, s.db, rec.ID)
		if err != nil {
			return domain.FullHistoryResponse{}, err
		}

		docs, err := s.documents.ListByRecord(ctx, s.db, rec.ID)
		if err != nil {
			return domain.FullHistoryResponse{}, err
		}
		summaries := make([]domain.DocumentSummary, 0, len(docs))
		for _, doc := range docs {
			summaries = append(summaries, domain.DocumentSummary{
				DocumentType: doc.DocumentType,
				Checksum:     doc.Checksum,
				SizeBytes:    doc.SizeBytes,
				CreatedAt:    doc.CreatedAt,
			})
		}

		var retry *domain.RetryStatus
		active, err := s.retries.ActiveByRecord(ctx, s.db, rec.ID)
		if err != nil {
			return domain.FullHistoryResponse{}, err
		}
		if active != nil {
			retry = &domain.RetryStatus{
				RetryCount: active.RetryCount,
				MaxRetries: active.MaxRetries,
				RetryAfter: active.RetryAfter,
				LastError:  active.LastError,
			}
		}

		stories = append(stories, domain.RecordStory{
			Record:    rec,
			History:   entries,
			Documents: summaries,
			Retry:     retry,
		})
	}

	return domain.FullHistoryResponse{Stories: stories}, nil
}

func (s *Service) Stats(ctx context.Context, req domain.StatsRequest) (domain.StatsResponse, error) {
	rows, err := s.records.Aggregate(ctx, s.db, recorddomain.StatsFilter{
		Provider: req.Provider,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
	})
	if err != nil {
		return domain.StatsResponse{}, err
	}

	var res domain.StatsResponse
	var completedAttempts int64
	for _, row := range rows {
		res.Total += row.Count
		switch row.Status {
		case recorddomain.StatusPending:
			res.Pending = row.Count
		case recorddomain.StatusProcessing:
			res.Processing = row.Count
		case recorddomain.StatusCompleted:
			res.Completed = row.Count
			completedAttempts = row.TotalAttempts
		case recorddomain.StatusFailed:
			res.Failed = row.Count
		case recorddomain.StatusRetry:
			res.Retry = row.Count
		case recorddomain.StatusCancelled:
			res.Cancelled = row.Count
		}
	}

	if res.Total > 0 {
		res.SuccessRate = round2(float64(res.Completed) / float64(res.Total) * 100)
	}
	if res.Completed > 0 {
		res.AverageAttempts = round2(float64(completedAttempts) / float64(res.Completed))
	}
	return res, nil
}

func (s *Service) observeResult(provider string, result providerdomain.Result) {
	if result.Success {
		s.metrics.IncResult(provider, obsmetrics.OutcomeCompleted)
	} else {
		s.metrics.IncResult(provider, obsmetrics.OutcomeFailed)
	}
}

func (s *Service) retryDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return time.Duration(attempts) * s.baseDelay
}

func validateIntake(req *domain.IntakeRequest) error {
	var missing []string
	if req.SourceID == "" {
		missing = append(missing, "source_id")
	}
	if req.Provider == "" {
		missing = append(missing, "provider")
	}
	if req.Currency == "" {
		missing = append(missing, "currency")
	}
	if req.InvoiceDate.IsZero() {
		missing = append(missing, "invoice_date")
	}
	if req.Amount.IsNegative() {
		missing = append(missing, "amount")
	}

	switch req.SourceKind {
	case "":
		req.SourceKind = recorddomain.SourceKindInvoice
	case recorddomain.SourceKindInvoice, recorddomain.SourceKindCharge:
	default:
		missing = append(missing, "source_kind")
	}

	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}

func actorID(actor domain.Actor) string {
	if actor.ID == "" {
		return auditdomain.ActorSystem
	}
	return actor.ID
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
