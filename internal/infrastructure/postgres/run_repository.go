package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

var _ billing.RunArchive = (*RunRepo)(nil)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate aplica los scripts de migrations/ en orden lexicográfico. Son idempotentes.
func Migrate(ctx context.Context, q Querier) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("postgres: listar migraciones: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("postgres: leer %s: %w", name, err)
		}
		if _, err := q.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("postgres: aplicar %s: %w", name, err)
		}
	}
	return nil
}

// RunRepo implementación de billing.RunArchive sobre invoice_runs / invoice_run_documents.
type RunRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewRunRepository construye el adaptador.
func NewRunRepository(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Save persiste la cabecera de la corrida y sus documentos en una sola transacción.
func (r *RunRepo) Save(ctx context.Context, run *entity.BatchRun) error {
	return r.tx.Run(ctx, func(q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO invoice_runs (id, source_name, format, template, records, succeeded, failed, status, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			run.ID, run.SourceName, string(run.Format), run.Template,
			run.Records, run.Succeeded, run.Failed, run.Status, run.Total, run.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("corrida %s ya archivada: %w", run.ID, err)
			}
			return fmt.Errorf("insert invoice_run: %w", err)
		}
		for _, d := range run.Documents {
			_, err := q.Exec(ctx, `
				INSERT INTO invoice_run_documents (run_id, record_index, customer_name, invoice_number, total)
				VALUES ($1, $2, $3, $4, $5)`,
				run.ID, d.Index, d.CustomerName, d.InvoiceNumber, d.Total,
			)
			if err != nil {
				return fmt.Errorf("insert invoice_run_document %d: %w", d.Index, err)
			}
		}
		return nil
	})
}

// List devuelve las corridas más recientes primero, sin sus documentos.
func (r *RunRepo) List(ctx context.Context, limit, offset int) ([]*entity.BatchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, source_name, format, template, records, succeeded, failed, status, total, created_at
		FROM invoice_runs
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoice_runs: %w", err)
	}
	defer rows.Close()

	var list []*entity.BatchRun
	for rows.Next() {
		var (
			run    entity.BatchRun
			format string
		)
		if err := rows.Scan(&run.ID, &run.SourceName, &format, &run.Template,
			&run.Records, &run.Succeeded, &run.Failed, &run.Status, &run.Total, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice_run: %w", err)
		}
		run.Format = entity.SourceFormat(format)
		list = append(list, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoice_runs: %w", err)
	}
	return list, nil
}

// Documents devuelve los documentos archivados de una corrida, en orden de la fuente.
// Una corrida inexistente es domain.ErrNotFound; una corrida sin documentos, lista vacía.
func (r *RunRepo) Documents(ctx context.Context, runID string) ([]entity.RunDocument, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoice_runs WHERE id = $1)`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("find invoice_run: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: corrida %s", domain.ErrNotFound, runID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT record_index, customer_name, invoice_number, total
		FROM invoice_run_documents
		WHERE run_id = $1
		ORDER BY record_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("list invoice_run_documents: %w", err)
	}
	defer rows.Close()

	docs := []entity.RunDocument{}
	for rows.Next() {
		var d entity.RunDocument
		if err := rows.Scan(&d.Index, &d.CustomerName, &d.InvoiceNumber, &d.Total); err != nil {
			return nil, fmt.Errorf("scan invoice_run_document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
