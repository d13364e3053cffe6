// Package dataset loads records for the CLI from JSON, JSON Lines and YAML
// files.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/triesearch/internal/errors"
)

// Record is one decoded record.
type Record = map[string]any

// Format is a record file encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// FormatOf picks the format from the file extension. Unknown extensions are
// read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Progress is called after each file is decoded, possibly from several
// goroutines at once.
type Progress func(done, total int, path string)

// Loader reads record files concurrently.
type Loader struct {
	parallelism int
	progress    Progress
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithParallelism bounds the number of files decoded at once.
func WithParallelism(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.parallelism = n
		}
	}
}

// WithProgress reports each decoded file.
func WithProgress(fn Progress) LoaderOption {
	return func(l *Loader) {
		l.progress = fn
	}
}

// NewLoader creates a loader decoding up to GOMAXPROCS files at once.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{parallelism: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes every file and returns their records concatenated in argument
// order. The first failure cancels the remaining files.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]Record, error) {
	start := time.Now()
	perFile := make([][]Record, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)

	var done atomic.Int64
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := ReadFile(path)
			if err != nil {
				return err
			}
			perFile[i] = records
			n := done.Add(1)
			if l.progress != nil {
				l.progress(int(n), len(paths), path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Record
	for _, records := range perFile {
		out = append(out, records...)
	}
	slog.Debug("dataset_loaded",
		slog.Int("files", len(paths)),
		slog.Int("records", len(out)),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

// ReadFile decodes one record file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "record file not found", err).
				WithDetail("path", path)
		}
		return nil, errors.IOError("failed to open record file", err).WithDetail("path", path)
	}
	defer f.Close()

	records, err := Decode(f, FormatOf(path))
	if err != nil {
		if te, ok := err.(*errors.TrieError); ok {
			return nil, te.WithDetail("path", path)
		}
		return nil, err
	}
	return records, nil
}

// Decode reads records in the given format. JSON and YAML accept a single
// record or a list of records.
func Decode(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatJSONL:
		return decodeJSONL(r)
	case FormatYAML:
		return decodeYAML(r)
	default:
		return decodeJSON(r)
	}
}

func decodeJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.IOError("failed to read records", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if data[0] == '{' {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, decodeError(err)
		}
		return []Record{rec}, nil
	}
	var recs []Record
	if err := dec.Decode(&recs); err != nil {
		return nil, decodeError(err)
	}
	return recs, nil
}

func decodeJSONL(r io.Reader) ([]Record, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, decodeError(err).WithDetail("line", strconv.Itoa(line))
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.IOError("failed to read records", err)
	}
	return recs, nil
}

func decodeYAML(r io.Reader) ([]Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, decodeError(err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.MappingNode {
		var rec Record
		if err := root.Decode(&rec); err != nil {
			return nil, decodeError(err)
		}
		return []Record{rec}, nil
	}
	var recs []Record
	if err := root.Decode(&recs); err != nil {
		return nil, decodeError(err)
	}
	return recs, nil
}

func decodeError(err error) *errors.TrieError {
	return errors.New(errors.ErrCodeFileDecode, "failed to decode records", err)
}
