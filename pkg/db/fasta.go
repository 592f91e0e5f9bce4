package db

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/yumyai/vogapi/pkg/model"
)

// Longest single line accepted in a FASTA file. Unwrapped genome-scale
// records can be far beyond bufio's 64KiB default.
const maxFastaLine = 64 << 20

// ParseFasta reads every record of r in file order. Lines before the first
// header are ignored. Whitespace inside the sequence body is dropped.
func ParseFasta(r io.Reader) ([]model.Sequence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFastaLine)

	var (
		records []model.Sequence
		body    strings.Builder
		current *model.Sequence
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Seq = body.String()
		records = append(records, *current)
		body.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			id, desc := splitHeader(line)
			current = &model.Sequence{ID: id, Description: desc}
			continue
		}
		if current == nil {
			continue
		}
		appendResidues(&body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fasta: %w", err)
	}
	flush()

	return records, nil
}

// splitHeader splits ">id free text" at the first whitespace.
func splitHeader(line string) (id, description string) {
	title := strings.TrimPrefix(line, ">")
	title = strings.TrimLeftFunc(title, unicode.IsSpace)
	idx := strings.IndexFunc(title, unicode.IsSpace)
	if idx < 0 {
		return title, ""
	}
	return title[:idx], strings.TrimSpace(title[idx:])
}

func appendResidues(b *strings.Builder, line string) {
	for _, r := range line {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
}

// WriteFasta renders records back as FASTA with 60 residues per line.
func WriteFasta(w io.Writer, records []model.Sequence) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		bw.WriteString(">")
		bw.WriteString(rec.ID)
		if rec.Description != "" {
			bw.WriteString(" ")
			bw.WriteString(rec.Description)
		}
		bw.WriteString("\n")
		for start := 0; start < len(rec.Seq); start += 60 {
			end := min(start+60, len(rec.Seq))
			bw.WriteString(rec.Seq[start:end])
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openFasta opens a per-group file, decompressing gzip transparently when
// the magic number (1F 8B) or a .gz suffix says so.
func openFasta(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gz, err := isGzip(fh, path)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	if !gz {
		return fh, nil
	}
	gr, err := gzip.NewReader(fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
}

func isGzip(fh *os.File, path string) (bool, error) {
	var sig [2]byte
	n, err := fh.Read(sig[:])
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	return (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz"), nil
}

// span locates one record (header line included) inside a bulk file.
type span struct {
	offset int64
	length int64
}

// indexFasta records where each record starts and how many bytes it spans.
// Duplicate identifiers make the file unusable as a lookup table.
func indexFasta(r io.Reader) (map[string]span, []string, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	index := make(map[string]span)
	var order []string

	var (
		pos       int64
		currentID string
		start     int64
		open      bool
	)

	closeRecord := func(end int64) {
		if open {
			index[currentID] = span{offset: start, length: end - start}
		}
	}

	for {
		line, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			// Long sequence line: consume the rest of it without keeping it.
			n := int64(len(line))
			for errors.Is(err, bufio.ErrBufferFull) {
				line, err = br.ReadSlice('\n')
				n += int64(len(line))
			}
			pos += n
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, nil, err
			}
			if errors.Is(err, io.EOF) {
				break
			}
			continue
		}
		if len(line) > 0 && line[0] == '>' {
			closeRecord(pos)
			id, _ := splitHeader(strings.TrimRight(string(line), "\r\n"))
			if _, dup := index[id]; dup {
				return nil, nil, fmt.Errorf("duplicate record id %q at byte %d", id, pos)
			}
			currentID, start, open = id, pos, true
			order = append(order, id)
		}
		pos += int64(len(line))
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, err
		}
	}
	closeRecord(pos)

	return index, order, nil
}
