package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/dumpimport/internal/config"
	"github.com/JonMunkholm/dumpimport/internal/dump"
	"github.com/JonMunkholm/dumpimport/internal/logging"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

// ContextCheckInterval is how often to check for context cancellation.
var ContextCheckInterval = 100

// Service runs imports of dump files into a Store.
type Service struct {
	store  store.Store
	schema string
	dryRun bool
	tables []TableDefinition
}

// NewService creates a Service importing the registered tables, limited to
// cfg.Tables when set.
func NewService(st store.Store, cfg config.ImportConfig) (*Service, error) {
	return NewServiceWithTables(st, cfg, Ordered())
}

// NewServiceWithTables creates a Service importing defs instead of the
// registry. defs are run in Info.Order.
func NewServiceWithTables(st store.Store, cfg config.ImportConfig, defs []TableDefinition) (*Service, error) {
	selected, err := selectTables(defs, cfg.Tables)
	if err != nil {
		return nil, err
	}

	schema := cfg.Schema
	if schema == "" {
		schema = dump.DefaultSchema
	}

	return &Service{
		store:  st,
		schema: schema,
		dryRun: cfg.DryRun,
		tables: selected,
	}, nil
}

func selectTables(defs []TableDefinition, names []string) ([]TableDefinition, error) {
	ordered := make([]TableDefinition, len(defs))
	copy(ordered, defs)
	SortByOrder(ordered)

	if len(names) == 0 {
		return ordered, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var selected []TableDefinition
	for _, def := range ordered {
		if want[def.Info.Key] {
			selected = append(selected, def)
			delete(want, def.Info.Key)
		}
	}
	for n := range want {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, n)
	}
	return selected, nil
}

// Tables returns the definitions this Service imports, in order.
func (s *Service) Tables() []TableInfo {
	infos := make([]TableInfo, len(s.tables))
	for i, def := range s.tables {
		infos[i] = def.Info
	}
	return infos
}

// Import imports the dump file at path. The file is closed before Import
// returns.
//
// All writes happen in one transaction. Failures of single rows are
// recorded in the result and do not stop the run; any returned error means
// the transaction was rolled back and nothing was written.
func (s *Service) Import(ctx context.Context, path string) (*ImportResult, error) {
	result, err := s.run(ctx, func(opts dump.Options) (*dump.Result, error) {
		return dump.ScanFile(path, opts)
	})
	result.DumpPath = path
	return result, err
}

// ImportReader imports a dump read from r.
func (s *Service) ImportReader(ctx context.Context, r io.Reader) (*ImportResult, error) {
	return s.run(ctx, func(opts dump.Options) (*dump.Result, error) {
		return dump.Scan(r, opts)
	})
}

type scanFunc func(opts dump.Options) (*dump.Result, error)

func (s *Service) run(ctx context.Context, scan scanFunc) (*ImportResult, error) {
	startTime := time.Now()
	result := &ImportResult{
		RunID:  logging.RunID(ctx),
		DryRun: s.dryRun,
	}
	if result.RunID == "" {
		result.RunID = uuid.NewString()
		ctx = logging.ContextWithRunID(ctx, result.RunID)
	}
	logger := logging.FromContext(ctx)

	sources := make([]string, len(s.tables))
	for i, def := range s.tables {
		sources[i] = def.Info.Source
	}

	scanned, err := scan(dump.Options{Schema: s.schema, Tables: sources})
	if err != nil {
		return result, fmt.Errorf("scan dump: %w", err)
	}
	result.MalformedHeaders = len(scanned.MalformedHeaders)
	for _, mh := range scanned.MalformedHeaders {
		logger.Warn("malformed COPY header, block ignored", "line", mh.Line, "text", mh.Text)
	}
	logger.Info("dump scanned",
		"tables_found", len(scanned.Blocks),
		"tables_requested", len(sources),
		"bytes", scanned.BytesRead,
	)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return result, err
	}
	// No-op once committed
	defer tx.Rollback(ctx)

	for _, def := range s.tables {
		tr, err := s.importTable(ctx, tx, def, scanned.Block(def.Info.Source))
		result.Tables = append(result.Tables, tr)
		if err != nil {
			result.Duration = time.Since(startTime)
			return result, fmt.Errorf("import %s: %w", def.Info.Key, err)
		}
	}

	result.Duration = time.Since(startTime)

	if s.dryRun {
		if err := tx.Rollback(ctx); err != nil {
			return result, fmt.Errorf("rollback dry run: %w", err)
		}
		logger.Info("dry run complete, changes rolled back")
		return result, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}
	result.Committed = true
	return result, nil
}

// importTable imports one block. Row failures are recorded in the result;
// the returned error is reserved for failures that leave the transaction
// unusable.
func (s *Service) importTable(ctx context.Context, tx store.Tx, def TableDefinition, block *dump.Block) (TableResult, error) {
	tr := TableResult{Table: def.Info.Key, Source: def.Info.Source}
	logger := logging.WithFields(ctx, "table", def.Info.Key)

	if block == nil {
		tr.Missing = true
		logger.Info("no data found in dump", "source", def.Info.Source)
		return tr, nil
	}

	tr.Found = block.Len()
	tr.RaggedRows = block.RaggedRows
	tr.Unterminated = block.Unterminated
	if block.Unterminated {
		logger.Warn("block not terminated, using rows up to end of file")
	}
	if block.RaggedRows > 0 {
		logger.Warn("rows with fewer fields than columns", "count", block.RaggedRows)
	}
	if missing := MissingColumns(block.Columns, def.Columns); len(missing) > 0 {
		tr.MissingColumns = missing
		logger.Warn("expected columns not in dump, defaults will be used", "columns", missing)
	}

	records := block.Records
	if def.Select != nil {
		records = def.Select(records)
	}

	logger.Info("importing table", "found", tr.Found, "selected", len(records), "policy", def.Policy)

	for i, rec := range records {
		if i%ContextCheckInterval == 0 && ctx.Err() != nil {
			return tr, ctx.Err()
		}
		row := i + 1

		entity, err := def.Transform(rec)
		if err != nil {
			if errors.Is(err, ErrSkipRow) {
				tr.Skipped++
				logger.Warn("skipping row", "row", row, "label", entity.Label, "reason", err)
				continue
			}
			tr.fail(logger, row, entity.Label, err)
			continue
		}

		status, id, rowErr, err := s.writeRow(ctx, tx, def, entity, row)
		if err != nil {
			return tr, err
		}
		if rowErr != nil {
			tr.fail(logger, row, entity.Label, rowErr)
			continue
		}

		tr.Imported++
		switch status {
		case RowUpdated:
			tr.Updated++
		case RowUnchanged:
			tr.Unchanged++
		}
		logger.Info("imported row", "label", entity.Label, "id", id, "status", status)
	}

	logger.Info("table complete",
		"found", tr.Found,
		"imported", tr.Imported,
		"skipped", tr.Skipped,
		"failed", len(tr.Failed),
	)
	return tr, nil
}

func (tr *TableResult) fail(logger *slog.Logger, row int, label string, err error) {
	msg := MapError(err)
	tr.Failed = append(tr.Failed, FailedRow{
		Row:    row,
		Label:  label,
		Reason: err.Error(),
		Code:   msg.Code,
	})
	logger.Error("row failed", "row", row, "label", label, "code", msg.Code, "error", err)
}

// writeRow writes one entity inside its own savepoint so a failed
// statement only discards that row. rowErr is the row's failure; err is a
// failure of the transaction itself.
func (s *Service) writeRow(ctx context.Context, tx store.Tx, def TableDefinition, e Entity, row int) (status RowStatus, id string, rowErr, err error) {
	savepoint := fmt.Sprintf("sp_%d", row)
	if err := tx.Savepoint(ctx, savepoint); err != nil {
		return "", "", nil, fmt.Errorf("create savepoint: %w", err)
	}

	status, id, rowErr = apply(ctx, tx, def, e)
	if rowErr != nil {
		if err := tx.RollbackTo(ctx, savepoint); err != nil {
			return "", "", nil, fmt.Errorf("rollback to savepoint: %w", err)
		}
		return RowFailed, "", rowErr, nil
	}

	_ = tx.Release(ctx, savepoint)
	return status, id, nil, nil
}

// apply performs the write dictated by the table's policy.
func apply(ctx context.Context, tx store.Tx, def TableDefinition, e Entity) (RowStatus, string, error) {
	w := store.Write{Table: def.Info.Key, Key: e.Key, Fields: e.Fields}

	switch def.Policy {
	case KeepExisting:
		w.Policy = store.ConflictIgnore
		id, written, err := tx.Upsert(ctx, w)
		if err != nil {
			return "", "", err
		}
		if !written {
			return RowUnchanged, "", nil
		}
		return RowInserted, id, nil

	case Overwrite:
		_, found, err := tx.Find(ctx, w.Table, w.Key)
		if err != nil {
			return "", "", err
		}
		w.Policy = store.ConflictUpdate
		id, _, err := tx.Upsert(ctx, w)
		if err != nil {
			return "", "", err
		}
		if found {
			return RowUpdated, id, nil
		}
		return RowInserted, id, nil

	case MatchThenWrite:
		_, found, err := tx.Find(ctx, w.Table, w.Key)
		if err != nil {
			return "", "", err
		}
		if found {
			id, _, err := tx.Update(ctx, w)
			if err != nil {
				return "", "", err
			}
			return RowUpdated, id, nil
		}
		w.Policy = store.ConflictFail
		id, _, err := tx.Upsert(ctx, w)
		if err != nil {
			return "", "", err
		}
		return RowInserted, id, nil

	default:
		return "", "", fmt.Errorf("unsupported write policy %d", def.Policy)
	}
}

// LogSummary logs the per-table counts and the overall outcome.
func (r *ImportResult) LogSummary(ctx context.Context) {
	logger := logging.FromContext(ctx)
	for _, t := range r.Tables {
		logger.Info("table summary",
			"table", t.Table,
			"missing", t.Missing,
			"found", t.Found,
			"imported", t.Imported,
			"updated", t.Updated,
			"unchanged", t.Unchanged,
			"skipped", t.Skipped,
			"failed", len(t.Failed),
		)
	}

	found, imported, skipped, failed := r.Totals()
	logger.Info("import summary",
		"found", found,
		"imported", imported,
		"skipped", skipped,
		"failed", failed,
		"malformed_headers", r.MalformedHeaders,
		"committed", r.Committed,
		"dry_run", r.DryRun,
		"duration", r.Duration,
	)
}
