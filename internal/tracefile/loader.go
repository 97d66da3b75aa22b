package tracefile

import (
	"io"
	"log"

	"github.com/packagewjx/workload-profiler/internal/schema"
	"github.com/pkg/errors"
)

type Options struct {
	HeaderRow         int
	DeploymentColumns []string
	UsageColumns      []string
	// Limit caps the deployment table and, separately, the usage samples of all shards
	// together. 0 means no cap.
	Limit int
}

// Loader reads the tables of one run. Usage shards are handed out one at a time in file order.
type Loader struct {
	sources   *Sources
	opts      Options
	next      int
	remaining int
	readCount uint64
	logger    *log.Logger
}

func NewLoader(sources *Sources, opts Options, logger *log.Logger) *Loader {
	return &Loader{
		sources:   sources,
		opts:      opts,
		remaining: opts.Limit,
		logger:    logger,
	}
}

func (l *Loader) BytesRead() uint64 {
	return l.readCount
}

// Deployments loads and reconciles the deployment table (or the vmtable).
func (l *Loader) Deployments(fields []schema.Field) (*ReconciledTable, error) {
	return l.load(l.sources.Deployment, fields, l.opts.DeploymentColumns, l.opts.Limit)
}

// NextShard loads and reconciles the next usage shard. It returns io.EOF when every shard has
// been read or the row budget is spent.
func (l *Loader) NextShard(fields []schema.Field) (*ReconciledTable, error) {
	for l.next < len(l.sources.Usage) {
		if l.opts.Limit > 0 && l.remaining <= 0 {
			l.logger.Printf("row limit %d reached, skipping %d remaining shard(s)\n",
				l.opts.Limit, len(l.sources.Usage)-l.next)
			l.next = len(l.sources.Usage)
			break
		}
		path := l.sources.Usage[l.next]
		l.next++

		limit := 0
		if l.opts.Limit > 0 {
			limit = l.remaining
		}
		table, err := l.load(path, fields, l.opts.UsageColumns, limit)
		if err == errEmpty {
			l.logger.Printf("%s is empty, skipped\n", path)
			continue
		} else if err != nil {
			return nil, err
		}
		l.remaining -= len(table.Rows)
		return table, nil
	}
	return nil, io.EOF
}

var errEmpty = errors.New("empty table")

// load reads one file and reconciles it. When the header looks malformed or reconciliation
// fails, the file is read once more with the next row as header.
func (l *Loader) load(path string, fields []schema.Field, columns []string, limit int) (*ReconciledTable, error) {
	opts := ReadOptions{HeaderRow: l.opts.HeaderRow, Columns: columns, Limit: limit}
	table, err := l.read(path, opts)
	if err != nil {
		return nil, err
	}
	if len(table.Columns) == 0 && len(table.Rows) == 0 {
		return nil, errEmpty
	}

	malformed := len(columns) == 0 && schema.LooksMalformed(table.Columns)
	var mapping schema.Mapping
	if !malformed {
		mapping, err = schema.Reconcile(table.Columns, fields)
		if err == nil {
			return &ReconciledTable{RawTable: table, Mapping: mapping}, nil
		}
		if len(columns) != 0 {
			return nil, errors.Wrapf(err, "reconcile %s", path)
		}
		l.logger.Printf("%s: %v, retrying with header row %d\n", path, err, opts.HeaderRow+1)
	} else {
		l.logger.Printf("%s: header %v looks malformed, retrying with header row %d\n",
			path, table.Columns, opts.HeaderRow+1)
	}

	opts.HeaderRow++
	table, err = l.read(path, opts)
	if err != nil {
		return nil, err
	}
	mapping, err = schema.Reconcile(table.Columns, fields)
	if err != nil {
		return nil, errors.Wrapf(err, "reconcile %s", path)
	}
	return &ReconciledTable{RawTable: table, Mapping: mapping}, nil
}

func (l *Loader) read(path string, opts ReadOptions) (*RawTable, error) {
	before := l.readCount
	in, err := Open(path, &l.readCount)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = in.Close()
	}()

	table, err := Read(in, path, opts)
	if err != nil {
		return nil, err
	}
	l.logger.Printf("loaded %d rows from %s (%d bytes)\n", len(table.Rows), path, l.readCount-before)
	return table, nil
}
