package core

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Layout describes how the input trace files are organized.
type Layout string

const (
	// one deployment table plus usage sample shards
	LayoutSplit = Layout("split")
	// a single vmtable carrying average usage and size columns
	LayoutVMTable = Layout("vmtable")
)

type SizeSource string

const (
	SizeFromTable   = SizeSource("table")
	SizeFromCatalog = SizeSource("catalog")
	SizeFromPattern = SizeSource("fallback")
	SizeFromTrace   = SizeSource("trace")
)

// SizeSpec is the resource bundle behind a VM size identifier.
type SizeSpec struct {
	VCPUs     int
	MemoryGiB float64
	Source    SizeSource
}

func (s SizeSpec) Valid() bool {
	return s.VCPUs > 0 && s.MemoryGiB > 0 && !math.IsNaN(s.MemoryGiB) && !math.IsInf(s.MemoryGiB, 0)
}

type TimeFormat string

const (
	TimeFormatISO = TimeFormat("iso")
	TimeFormatRaw = TimeFormat("raw")
)

const ISOLayout = "2006-01-02T15:04:05Z"

// DefaultEpoch is the origin relative second offsets are counted from.
var DefaultEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

var absoluteLayouts = []string{
	time.RFC3339Nano,
	ISOLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// maxOffsetSeconds bounds relative offsets to what a time.Duration can hold (about 292 years).
const maxOffsetSeconds = math.MaxInt64 / int64(time.Second)

// Timestamp is an instant together with its offset in seconds from the epoch origin.
type Timestamp struct {
	Time   time.Time
	Offset float64
}

// ParseTimestamp accepts either seconds relative to origin or an absolute date-time string.
func ParseTimestamp(raw string, origin time.Time) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, errors.Wrap(ErrInvalidTimestamp, "empty value")
	}

	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if secs > maxOffsetSeconds || secs < -maxOffsetSeconds {
			return Timestamp{}, errors.Wrapf(ErrInvalidTimestamp, "%q out of range", raw)
		}
		return Timestamp{
			Time:   origin.Add(time.Duration(secs) * time.Second).UTC(),
			Offset: float64(secs),
		}, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return Timestamp{}, errors.Wrapf(ErrInvalidTimestamp, "%q", raw)
		}
		if math.Abs(secs) > float64(maxOffsetSeconds) {
			return Timestamp{}, errors.Wrapf(ErrInvalidTimestamp, "%q out of range", raw)
		}
		return Timestamp{
			Time:   origin.Add(time.Duration(secs * float64(time.Second))).UTC(),
			Offset: secs,
		}, nil
	}

	for _, layout := range absoluteLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			t = t.UTC()
			offset := float64(t.Unix()-origin.Unix()) + float64(t.Nanosecond()-origin.Nanosecond())/1e9
			if math.Abs(offset) > float64(maxOffsetSeconds) {
				return Timestamp{}, errors.Wrapf(ErrInvalidTimestamp, "%q out of range", raw)
			}
			return Timestamp{Time: t, Offset: offset}, nil
		}
	}
	return Timestamp{}, errors.Wrapf(ErrInvalidTimestamp, "%q", raw)
}

func (t Timestamp) Before(o Timestamp) bool {
	return t.Time.Before(o.Time)
}

func (t Timestamp) After(o Timestamp) bool {
	return t.Time.After(o.Time)
}

func (t Timestamp) ISO() string {
	return t.Time.UTC().Format(ISOLayout)
}

// TimeValue renders a Timestamp either as an ISO-8601 string or as raw offset seconds.
type TimeValue struct {
	Timestamp
	Format TimeFormat
}

func (v TimeValue) MarshalJSON() ([]byte, error) {
	if v.Format == TimeFormatRaw {
		return []byte(strconv.FormatFloat(v.Offset, 'f', -1, 64)), nil
	}
	return []byte(strconv.Quote(v.ISO())), nil
}

const (
	LabelGroup         = "group"
	LabelSizeSource    = "size_source"
	LabelWorkloadClass = "workload_class"

	AnnotationVMId       = "vm_id"
	AnnotationVMSize     = "vm_size"
	AnnotationSampleTime = "sample_time"
)

// WorkloadProfile is the record handed to the placement simulator. It is not modified after construction.
type WorkloadProfile struct {
	Name          string            `json:"name"`
	CpuRequest    int               `json:"cpu_request"`
	MemoryRequest float64           `json:"memory_request"`
	CpuUsage      float64           `json:"cpu_usage"`
	MemUsage      float64           `json:"mem_usage"`
	StartTime     TimeValue         `json:"start_time"`
	EndTime       TimeValue         `json:"end_time"`
	Labels        map[string]string `json:"labels"`
	Annotations   map[string]string `json:"annotations"`
}
