package orchestrators

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/domain/audit"
	"radioclub/internal/domain/export"
)

// TableWriter serializes an export table.
type TableWriter interface {
	Write(w io.Writer, t export.Table) error
}

// ExportRegistrationsDeps holds dependencies for ExportRegistrations.
type ExportRegistrationsDeps struct {
	RegistrationStore RegistrationStore
	Writer            TableWriter
	AuditStore        AuditStore // optional
	Now               func() time.Time
}

// ExportResult describes a finished export.
type ExportResult struct {
	Filename string
	Rows     int
}

// ExecuteExportRegistrations writes every registration, ordered by choice, to w.
// PRE: w accepts the whole workbook; nothing is written on a store error
// POST: w holds one header row plus one row per registration
func ExecuteExportRegistrations(ctx context.Context, w io.Writer, actor Actor, deps ExportRegistrationsDeps) (ExportResult, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	regs, err := deps.RegistrationStore.List(ctx, registrationStore.OrderByChoice)
	if err != nil {
		return ExportResult{}, err
	}
	table := export.BuildTable(regs)
	if err := deps.Writer.Write(w, table); err != nil {
		return ExportResult{}, fmt.Errorf("write export: %w", err)
	}

	res := ExportResult{Filename: export.Filename(now()), Rows: len(table.Rows)}
	slog.Info("registrations_exported", "rows", res.Rows, "actor", actor.Name)
	recordAudit(ctx, deps.AuditStore, now, actor,
		audit.CategoryExport, audit.ActionDownload, audit.SeverityInfo,
		"export", res.Filename, fmt.Sprintf("exported %d registrations", res.Rows))
	return res, nil
}
