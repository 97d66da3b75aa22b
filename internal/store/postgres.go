package store

import (
	"context"
	"database/sql"
	"embed"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

type postgresStore struct {
	db     *sql.DB
	logger *log.Logger
}

var _ Store = &postgresStore{}

func NewPostgresStore(dsn string, logger *log.Logger) (Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	s := &postgresStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *postgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return errors.Wrap(err, "read schema")
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return errors.Wrap(err, "execute schema")
	}
	return nil
}

const insertRun = `
	INSERT INTO runs (id, input, output, started_at, finished_at, emitted, dropped)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const insertProfile = `
	INSERT INTO profiles (
		run_id, name, vm_id, vm_size, group_label, size_source, workload_class,
		cpu_request, memory_request, cpu_usage, mem_usage, start_time, end_time,
		labels, annotations
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

// SaveRun writes the run and all of its profiles in one transaction.
func (s *postgresStore) SaveRun(ctx context.Context, run *Run, profiles []*core.WorkloadProfile) (err error) {
	records, err := toProfileDOs(run.ID, profiles)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	r := toRunDO(run)
	_, err = tx.ExecContext(ctx, insertRun, r.ID, r.Input, r.Output, r.StartedAt, r.FinishedAt, r.Emitted, r.Dropped)
	if err != nil {
		return errors.Wrapf(err, "save run %s", run.ID)
	}

	stmt, err := tx.PrepareContext(ctx, insertProfile)
	if err != nil {
		return errors.Wrap(err, "prepare profile insert")
	}
	defer func() {
		_ = stmt.Close()
	}()
	for _, p := range records {
		_, err = stmt.ExecContext(ctx, p.RunID, p.Name, p.VMId, p.VMSize, p.GroupLabel, p.SizeSource,
			p.WorkloadClass, p.CpuRequest, p.MemoryRequest, p.CpuUsage, p.MemUsage, p.StartTime, p.EndTime,
			p.Labels, p.Annotations)
		if err != nil {
			return errors.Wrapf(err, "save profile %s", p.Name)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit run %s", run.ID)
	}
	s.logger.Printf("saved run %s with %d profiles to postgres\n", run.ID, len(records))
	return nil
}

func (s *postgresStore) CountProfiles(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE run_id = $1", runID).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "count profiles of run %s", runID)
	}
	return count, nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}
