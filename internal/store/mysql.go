package store

import (
	"context"
	"log"
	"os"

	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mysqlStore struct {
	db     *gorm.DB
	logger *log.Logger
}

var _ Store = &mysqlStore{}

func NewMySQLStore(dsn string, l *log.Logger) (Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "", 0), logger.Config{
			LogLevel: logger.Silent,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql")
	}

	err = db.AutoMigrate(&RunDO{}, &ProfileDO{})
	if err != nil {
		return nil, errors.Wrap(err, "migrate mysql tables")
	}

	return &mysqlStore{db: db, logger: l}, nil
}

func (s *mysqlStore) SaveRun(ctx context.Context, run *Run, profiles []*core.WorkloadProfile) error {
	records, err := toProfileDOs(run.ID, profiles)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toRunDO(run)).Error; err != nil {
			return errors.Wrapf(err, "save run %s", run.ID)
		}
		for start := 0; start < len(records); start += batchSize {
			end := start + batchSize
			if end > len(records) {
				end = len(records)
			}
			if err := tx.Create(records[start:end]).Error; err != nil {
				return errors.Wrapf(err, "save profiles %d-%d of run %s", start, end, run.ID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Printf("saved run %s with %d profiles to mysql\n", run.ID, len(records))
	return nil
}

func (s *mysqlStore) CountProfiles(ctx context.Context, runID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ProfileDO{}).Where("run_id = ?", runID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrapf(err, "count profiles of run %s", runID)
	}
	return int(count), nil
}

func (s *mysqlStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
