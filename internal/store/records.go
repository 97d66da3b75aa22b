package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Run describes one preprocessing run.
type Run struct {
	ID         string
	Input      string
	Output     string
	StartedAt  time.Time
	FinishedAt time.Time
	Emitted    int
	Dropped    int
}

func NewRunID() string {
	return uuid.New().String()
}

type RunDO struct {
	ID         string `gorm:"primarykey;size:36"`
	Input      string
	Output     string
	StartedAt  time.Time
	FinishedAt time.Time
	Emitted    int
	Dropped    int
}

type ProfileDO struct {
	gorm.Model
	RunID         string `gorm:"size:36;uniqueIndex:unique_profile"`
	Name          string `gorm:"size:255;uniqueIndex:unique_profile"`
	VMId          string `gorm:"size:255;index"`
	VMSize        string
	GroupLabel    string
	SizeSource    string
	WorkloadClass string
	CpuRequest    int
	MemoryRequest float64
	CpuUsage      float64
	MemUsage      float64
	StartTime     time.Time
	EndTime       time.Time
	// labels and annotations as JSON objects
	Labels      string `gorm:"type:text"`
	Annotations string `gorm:"type:text"`
}

func toRunDO(run *Run) *RunDO {
	return &RunDO{
		ID:         run.ID,
		Input:      run.Input,
		Output:     run.Output,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		Emitted:    run.Emitted,
		Dropped:    run.Dropped,
	}
}

func toProfileDOs(runID string, profiles []*core.WorkloadProfile) ([]*ProfileDO, error) {
	result := make([]*ProfileDO, len(profiles))
	for i, p := range profiles {
		labels, err := json.Marshal(p.Labels)
		if err != nil {
			return nil, errors.Wrapf(err, "encode labels of %s", p.Name)
		}
		annotations, err := json.Marshal(p.Annotations)
		if err != nil {
			return nil, errors.Wrapf(err, "encode annotations of %s", p.Name)
		}
		result[i] = &ProfileDO{
			RunID:         runID,
			Name:          p.Name,
			VMId:          p.Annotations[core.AnnotationVMId],
			VMSize:        p.Annotations[core.AnnotationVMSize],
			GroupLabel:    p.Labels[core.LabelGroup],
			SizeSource:    p.Labels[core.LabelSizeSource],
			WorkloadClass: p.Labels[core.LabelWorkloadClass],
			CpuRequest:    p.CpuRequest,
			MemoryRequest: p.MemoryRequest,
			CpuUsage:      p.CpuUsage,
			MemUsage:      p.MemUsage,
			StartTime:     p.StartTime.Time.UTC(),
			EndTime:       p.EndTime.Time.UTC(),
			Labels:        string(labels),
			Annotations:   string(annotations),
		}
	}
	return result, nil
}
