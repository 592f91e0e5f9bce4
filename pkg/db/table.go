package db

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Longest table line accepted. Member lists of large groups run long.
const maxTableLine = 16 << 20

// readTable streams a tab separated file with one header row. The header is
// skipped; columns are positional and named by columns. Quotes carry no
// meaning, every line is exactly one row. Blank lines are ignored. fn is
// called for every data row in file order.
func readTable(path string, columns []string, fn func(r *row) error) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTableLine)

	r := &row{file: path, names: columns}
	header := true
	for scanner.Scan() {
		r.line++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != len(columns) {
			return &TableError{
				File: path,
				Line: r.line,
				Err:  fmt.Errorf("expected %d fields, got %d", len(columns), len(fields)),
			}
		}
		if header {
			header = false
			continue
		}

		r.fields = fields
		r.err = nil
		if err := fn(r); err != nil {
			return err
		}
		if r.err != nil {
			return r.err
		}
	}
	if err := scanner.Err(); err != nil {
		return &TableError{File: path, Line: r.line + 1, Err: err}
	}
	if header {
		return &TableError{File: path, Line: 1, Err: errors.New("missing header row")}
	}
	return nil
}

// row is the current record of readTable. Typed accessors keep the first
// conversion error, so a loader can read every column and check Err once.
type row struct {
	file   string
	line   int
	names  []string
	fields []string
	err    error
}

func (r *row) Str(i int) string {
	return r.fields[i]
}

func (r *row) Int(i int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.fields[i]))
	if err != nil {
		r.fail(i, err)
	}
	return v
}

func (r *row) Bool(i int) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.fields[i]))
	if err != nil {
		r.fail(i, err)
	}
	return v
}

func (r *row) fail(i int, err error) {
	if r.err == nil {
		r.err = &TableError{File: r.file, Line: r.line, Column: r.names[i], Err: err}
	}
}

// Err returns the first conversion error of this row.
func (r *row) Err() error {
	return r.err
}

func (r *row) duplicate(i int) error {
	return &TableError{File: r.file, Line: r.line, Column: r.names[i], Err: fmt.Errorf("duplicate id %q", r.fields[i])}
}
