package store

import (
	"context"
	"log"

	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
)

// Store persists the profiles of a run next to the JSON artifact.
type Store interface {
	SaveRun(ctx context.Context, run *Run, profiles []*core.WorkloadProfile) error
	// CountProfiles returns the number of profiles stored for a run.
	CountProfiles(ctx context.Context, runID string) (int, error)
	Close() error
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// batchSize is the number of profiles written per statement batch.
const batchSize = 500

func Open(driver, dsn string, logger *log.Logger) (Store, error) {
	switch driver {
	case DriverMySQL:
		return NewMySQLStore(dsn, logger)
	case DriverPostgres:
		return NewPostgresStore(dsn, logger)
	default:
		return nil, errors.Errorf("unknown store driver %q", driver)
	}
}
