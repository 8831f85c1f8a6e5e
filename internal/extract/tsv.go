// Package extract reads ground-truth and prediction tables.
package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/acroeval/internal/model"
)

// Column layout of the two tables
const (
	truthMinFields     = 3  // labels, acrostic, page, ...
	candidateNumFields = 11 // title, acrostic, _, _, _, cluster, _, _, prefix, postfix, _

	maxLineBytes = 16 << 20
)

// ErrMalformedRow marks a row with the wrong number of columns
var ErrMalformedRow = errors.New("malformed row")

// RowError describes a malformed row
type RowError struct {
	Path   string
	Line   int // 1-based, header is line 1
	Fields int
	Want   string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %s: got %d fields, want %s", e.Path, e.Line, ErrMalformedRow, e.Fields, e.Want)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}

// ReadTruthFile reads a ground-truth table from disk
func ReadTruthFile(path string) ([]model.TruthRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open truth: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadTruth(f, path)
}

// ReadTruth reads ground-truth rows; the header row is discarded
func ReadTruth(r io.Reader, name string) ([]model.TruthRecord, error) {
	var records []model.TruthRecord
	err := eachRow(r, func(line int, fields []string) error {
		if len(fields) < truthMinFields {
			return &RowError{Path: name, Line: line, Fields: len(fields), Want: fmt.Sprintf(">= %d", truthMinFields)}
		}
		records = append(records, model.TruthRecord{
			Labels:   fields[0],
			Acrostic: fields[1],
			Page:     fields[2],
			Line:     line,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadCandidatesFile reads a prediction table from disk
func ReadCandidatesFile(path string) ([]model.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open predictions: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCandidates(f, path)
}

// ReadCandidates reads ranked prediction rows in input order (most
// confident first); the header row is discarded
func ReadCandidates(r io.Reader, name string) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := eachRow(r, func(line int, fields []string) error {
		if len(fields) != candidateNumFields {
			return &RowError{Path: name, Line: line, Fields: len(fields), Want: fmt.Sprintf("%d", candidateNumFields)}
		}
		candidates = append(candidates, model.Candidate{
			Title:    fields[0],
			Acrostic: fields[1],
			Cluster:  fields[5],
			Prefix:   fields[8],
			Postfix:  fields[9],
			Line:     line,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// eachRow calls fn with the tab-separated fields of every line after the header
func eachRow(r io.Reader, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if err := fn(line, strings.Split(text, "\t")); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}
