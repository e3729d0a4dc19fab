package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// PostgresIndexer upserts jobs into a PostgreSQL table keyed by URL
type PostgresIndexer struct {
	db        *sql.DB
	tableName string
}

// NewPostgresIndexer creates a new PostgreSQL indexer
func NewPostgresIndexer(connStr string, tableName string) (*PostgresIndexer, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	indexer := &PostgresIndexer{
		db:        db,
		tableName: tableName,
	}

	if err := indexer.ensureTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	return indexer, nil
}

// createTableQuery mirrors the job details checkpoint columns; optional sections are nullable
func createTableQuery(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			employer_title TEXT NOT NULL,
			job_title TEXT NOT NULL,
			job_description TEXT NOT NULL,
			ai_job_summary TEXT,
			job_type TEXT,
			disciplines TEXT,
			work_rights TEXT,
			locations TEXT,
			start_date TEXT,
			end_date TEXT,
			scraped_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, pq.QuoteIdentifier(table))
}

func upsertQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (
			id, url, employer_title, job_title, job_description,
			ai_job_summary, job_type, disciplines, work_rights, locations,
			start_date, end_date, scraped_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			employer_title = EXCLUDED.employer_title,
			job_title = EXCLUDED.job_title,
			job_description = EXCLUDED.job_description,
			ai_job_summary = EXCLUDED.ai_job_summary,
			job_type = EXCLUDED.job_type,
			disciplines = EXCLUDED.disciplines,
			work_rights = EXCLUDED.work_rights,
			locations = EXCLUDED.locations,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = NOW()
	`, pq.QuoteIdentifier(table))
}

func (i *PostgresIndexer) ensureTable() error {
	_, err := i.db.Exec(createTableQuery(i.tableName))
	return err
}

// upsertArgs are the positional arguments of upsertQuery
func upsertArgs(job *domain.JobDetail) []any {
	scrapedAt := sql.NullTime{Time: job.ScrapedAt, Valid: !job.ScrapedAt.IsZero()}
	return []any{
		DocumentID(job.URL), job.URL, job.EmployerTitle, job.JobTitle, job.JobDescription,
		nullString(job.AISummary), nullString(job.JobType), nullString(job.Disciplines),
		nullString(job.WorkRights), nullString(job.Locations),
		nullString(job.StartDate), nullString(job.EndDate), scrapedAt,
	}
}

// BulkIndex upserts multiple jobs in one transaction. A failing row is logged and skipped.
func (i *PostgresIndexer) BulkIndex(ctx context.Context, jobs []*domain.JobDetail) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertQuery(i.tableName))
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		// A savepoint keeps one bad row from aborting the whole transaction
		if _, err := tx.ExecContext(ctx, "SAVEPOINT job_row"); err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, upsertArgs(job)...); err != nil {
			log.Printf("[Postgres] Error indexing job %s: %v", job.URL, err)
			if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT job_row"); err != nil {
				return fmt.Errorf("rollback savepoint: %w", err)
			}
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection
func (i *PostgresIndexer) Close() error {
	return i.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
