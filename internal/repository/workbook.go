package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrTableNotFound is returned when a table file has not been created yet.
var ErrTableNotFound = errors.New("table file not found")

// Record is one data row keyed by column header.
type Record map[string]string

// Get returns the trimmed value of col, "" when absent.
func (r Record) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Table is a decoded sheet: a header row followed by records.
type Table struct {
	Header  []string
	Records []Record
}

func (t *Table) clone() *Table {
	c := &Table{
		Header:  append([]string(nil), t.Header...),
		Records: make([]Record, len(t.Records)),
	}
	for i, rec := range t.Records {
		cp := make(Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		c.Records[i] = cp
	}
	return c
}

// Sheet is the full content to write back: header plus cell values.
// Values must be string, int or float64.
type Sheet struct {
	Header []string
	Rows   [][]interface{}
}

// Workbook is one xlsx file holding a single table on its first sheet.
type Workbook struct {
	path  string
	cache *TableCache
	mu    sync.Mutex
}

func NewWorkbook(path string, cache *TableCache) *Workbook {
	if cache == nil {
		cache = NewTableCache()
	}
	return &Workbook{path: path, cache: cache}
}

func (w *Workbook) Path() string {
	return w.path
}

// Read returns the table, served from the cache while the file is unchanged.
func (w *Workbook) Read() (*Table, error) {
	t, err := w.cache.Load(w.path, readTable)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", w.path, ErrTableNotFound)
	}
	return t, err
}

// Update reads the current table (empty when the file does not exist yet),
// asks build for the complete replacement and swaps it in atomically.
func (w *Workbook) Update(build func(current *Table) (*Sheet, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	current, err := w.Read()
	if errors.Is(err, ErrTableNotFound) {
		current, err = &Table{}, nil
	}
	if err != nil {
		return err
	}

	sheet, err := build(current)
	if err != nil {
		return err
	}

	if err := writeTable(w.path, sheet); err != nil {
		return err
	}
	w.cache.Invalidate(w.path)
	return nil
}

// Invalidate drops any cached copy of the table.
func (w *Workbook) Invalidate() {
	w.cache.Invalidate(w.path)
}

// AppendSheet keeps every existing record and adds rows encoded against header.
// Columns present in the file but unknown to header are preserved.
func AppendSheet(current *Table, header []string, rows [][]interface{}) *Sheet {
	merged := append([]string(nil), current.Header...)
	seen := make(map[string]bool, len(merged))
	for _, h := range merged {
		seen[h] = true
	}
	for _, h := range header {
		if !seen[h] {
			merged = append(merged, h)
			seen[h] = true
		}
	}

	sheet := &Sheet{Header: merged, Rows: make([][]interface{}, 0, len(current.Records)+len(rows))}
	for _, rec := range current.Records {
		out := make([]interface{}, len(merged))
		for i, h := range merged {
			out[i] = rec[h]
		}
		sheet.Rows = append(sheet.Rows, out)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	for _, row := range rows {
		out := make([]interface{}, len(merged))
		for i, h := range merged {
			out[i] = ""
			if j, ok := index[h]; ok && j < len(row) {
				out[i] = row[j]
			}
		}
		sheet.Rows = append(sheet.Rows, out)
	}
	return sheet
}

func readTable(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.ReplaceAll(h, "\ufeff", ""))
	}

	table := &Table{Header: header}
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		empty := true
		for i, h := range header {
			if h == "" || i >= len(row) {
				continue
			}
			rec[h] = row[i]
			if strings.TrimSpace(row[i]) != "" {
				empty = false
			}
		}
		if !empty {
			table.Records = append(table.Records, rec)
		}
	}
	return table, nil
}

func writeTable(path string, sheet *Sheet) (err error) {
	f := excelize.NewFile()
	defer f.Close()

	name := f.GetSheetName(0)
	header := make([]interface{}, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			if v == nil {
				v = ""
			}
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// TableCache is a read-through cache of decoded tables keyed by path and
// invalidated whenever the file's modification time or size changes.
type TableCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	table   *Table
}

func NewTableCache() *TableCache {
	return &TableCache{entries: make(map[string]cacheEntry)}
}

// Load returns a copy of the cached table for path, calling read on a miss.
func (c *TableCache) Load(path string, read func(string) (*Table, error)) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.table.clone(), nil
	}

	table, err := read(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), table: table}
	c.mu.Unlock()

	return table.clone(), nil
}

// Invalidate forgets path so the next Load reads the file again.
func (c *TableCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
