package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbook_ReadMissingFile(t *testing.T) {
	book := NewWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), nil)

	_, err := book.Read()
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestWorkbook_UpdateCreatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "table.xlsx")
	book := NewWorkbook(path, nil)
	header := []string{"a", "b"}

	err := book.Update(func(current *Table) (*Sheet, error) {
		assert.Empty(t, current.Records)
		return AppendSheet(current, header, [][]interface{}{{"x", 1}}), nil
	})
	require.NoError(t, err)

	err = book.Update(func(current *Table) (*Sheet, error) {
		require.Len(t, current.Records, 1)
		return AppendSheet(current, header, [][]interface{}{{"y", 2.5}}), nil
	})
	require.NoError(t, err)

	table, err := book.Read()
	require.NoError(t, err)
	assert.Equal(t, header, table.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "x", table.Records[0].Get("a"))
	assert.Equal(t, "1", table.Records[0].Get("b"))
	assert.Equal(t, "y", table.Records[1].Get("a"))
	assert.Equal(t, "2.5", table.Records[1].Get("b"))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppendSheet_PreservesUnknownColumns(t *testing.T) {
	current := &Table{
		Header:  []string{"a", "legacy"},
		Records: []Record{{"a": "old", "legacy": "keep"}},
	}

	sheet := AppendSheet(current, []string{"a", "b"}, [][]interface{}{{"new", "value"}})

	assert.Equal(t, []string{"a", "legacy", "b"}, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []interface{}{"old", "keep", ""}, sheet.Rows[0])
	assert.Equal(t, []interface{}{"new", "", "value"}, sheet.Rows[1])
}

func TestTableCache_ReturnsCopies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")
	book := NewWorkbook(path, nil)
	require.NoError(t, book.Update(func(current *Table) (*Sheet, error) {
		return AppendSheet(current, []string{"a"}, [][]interface{}{{"x"}}), nil
	}))

	first, err := book.Read()
	require.NoError(t, err)
	first.Records[0]["a"] = "mutated"

	second, err := book.Read()
	require.NoError(t, err)
	assert.Equal(t, "x", second.Records[0].Get("a"))
}

func TestTableCache_ServesUntilInvalidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")
	require.NoError(t, NewWorkbook(path, nil).Update(func(current *Table) (*Sheet, error) {
		return AppendSheet(current, []string{"a"}, [][]interface{}{{"x"}}), nil
	}))

	cache := NewTableCache()
	reads := 0
	read := func(p string) (*Table, error) {
		reads++
		return readTable(p)
	}

	_, err := cache.Load(path, read)
	require.NoError(t, err)
	_, err = cache.Load(path, read)
	require.NoError(t, err)
	assert.Equal(t, 1, reads)

	cache.Invalidate(path)
	_, err = cache.Load(path, read)
	require.NoError(t, err)
	assert.Equal(t, 2, reads)
}
