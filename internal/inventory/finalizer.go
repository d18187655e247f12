package inventory

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/vietdv277/bucketscope/pkg/provider"
)

// sortColumns order report rows so unchanged cloud state produces the same
// file on every run regardless of goroutine scheduling.
var sortColumns = []string{"ProjectId", "BucketName", "StorageClass"}

// FinalizeResult describes what the finalizer produced
type FinalizeResult struct {
	Rows      int
	CSVFile   string
	ObjectKey string
	Uploaded  []string // Destinations written, e.g. gs://bucket/key
}

// table is a decoded JSON lines file. Columns are the keys of the first
// record in encounter order.
type table struct {
	columns []string
	rows    [][]string
}

// Finalize converts the intermediate file to CSV, deletes the intermediate
// file, then uploads the CSV to every destination. Missing files are skipped
// silently.
func Finalize(ctx context.Context, s *Session, uploaders []provider.Uploader) (*FinalizeResult, error) {
	log := s.logger()
	cfg := &s.Config
	res := &FinalizeResult{}

	if fileExists(cfg.TextFileName) {
		log.Info("Converting intermediate file to CSV",
			zap.String("source", cfg.TextFileName),
			zap.String("destination", cfg.CSVFileName))

		rows, err := convertToCSV(cfg.TextFileName, cfg.CSVFileName)
		if err != nil {
			return res, err
		}
		res.Rows = rows

		if err := os.Remove(cfg.TextFileName); err != nil {
			return res, fmt.Errorf("remove intermediate file: %w", err)
		}
	}

	if !fileExists(cfg.CSVFileName) {
		return res, nil
	}
	res.CSVFile = cfg.CSVFileName
	res.ObjectKey = ObjectKey(cfg.reportPrefix(), s.now().Format("2006-01-02"), cfg.CSVFileName)

	opts := &provider.UploadOptions{
		ContentType: ContentTypeCSV,
		Metadata:    map[string]string{"run-id": cfg.RunID},
	}
	if cfg.BuildNo != "" {
		opts.Metadata["build-no"] = cfg.BuildNo
	}

	var errs []error
	for _, up := range uploaders {
		log.Info("Uploading report", zap.String("destination", up.Name()), zap.String("key", res.ObjectKey))
		if err := uploadFile(ctx, up, cfg.CSVFileName, res.ObjectKey, opts); err != nil {
			errs = append(errs, err)
			continue
		}
		res.Uploaded = append(res.Uploaded, up.Name()+"/"+res.ObjectKey)
	}
	return res, errors.Join(errs...)
}

// ObjectKey builds {prefix}/{date}/{file name}
func ObjectKey(prefix, date, fileName string) string {
	return path.Join(prefix, date, filepath.Base(fileName))
}

func uploadFile(ctx context.Context, up provider.Uploader, file, key string, opts *provider.UploadOptions) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open report %s: %w", file, err)
	}
	defer func() { _ = f.Close() }()

	if err := up.Upload(ctx, key, f, opts); err != nil {
		return fmt.Errorf("upload to %s: %w", up.Name(), err)
	}
	return nil
}

// convertToCSV writes the JSON lines in src as a CSV file at dst and
// returns the number of data rows. An empty source produces no CSV.
func convertToCSV(src, dst string) (int, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open intermediate file: %w", err)
	}
	defer func() { _ = in.Close() }()

	t, err := readJSONLines(in)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", src, err)
	}
	if len(t.columns) == 0 {
		return 0, nil
	}
	t.sortRows(sortColumns)

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	w := csv.NewWriter(out)
	_ = w.Write(t.columns)
	_ = w.WriteAll(t.rows) // WriteAll flushes
	if err := w.Error(); err != nil {
		_ = out.Close()
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", dst, err)
	}
	return len(t.rows), nil
}

// readJSONLines decodes one JSON object per line. Keys missing from a later
// record become empty cells; keys not present in the first record are dropped.
func readJSONLines(r io.Reader) (*table, error) {
	t := &table{}
	index := map[string]int{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		keys, values, err := decodeOrdered(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if t.columns == nil {
			t.columns = keys
			for i, k := range keys {
				index[k] = i
			}
		}

		row := make([]string, len(t.columns))
		for i, k := range keys {
			if col, ok := index[k]; ok {
				row[col] = values[i]
			}
		}
		t.rows = append(t.rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// decodeOrdered decodes a flat JSON object preserving key order. Strings are
// unquoted, null becomes an empty cell, other values keep their JSON text.
func decodeOrdered(raw []byte) ([]string, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected JSON object")
	}

	var keys, values []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("value of %q: %w", key, err)
		}

		keys = append(keys, key)
		values = append(values, cellValue(value))
	}
	return keys, values, nil
}

func cellValue(v json.RawMessage) string {
	text := strings.TrimSpace(string(v))
	switch {
	case text == "null":
		return ""
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return text
}

// sortRows orders rows by the given columns, skipping any the table lacks
func (t *table) sortRows(by []string) {
	var idx []int
	for _, name := range by {
		for i, col := range t.columns {
			if col == name {
				idx = append(idx, i)
				break
			}
		}
	}
	if len(idx) == 0 {
		return
	}
	sort.SliceStable(t.rows, func(a, b int) bool {
		for _, i := range idx {
			if t.rows[a][i] != t.rows[b][i] {
				return t.rows[a][i] < t.rows[b][i]
			}
		}
		return false
	})
}

func fileExists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(name)
	return err == nil
}
