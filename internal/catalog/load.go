package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// NameColumn is the dataset column holding "<brand> <model ...>".
const NameColumn = "name"

// NameSource yields raw car names from somewhere other than a file.
type NameSource interface {
	CarNames(ctx context.Context) ([]string, error)
}

// FromSource builds a catalog from src.
func FromSource(ctx context.Context, src NameSource) (*Catalog, error) {
	names, err := src.CarNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("read car names: %w", err)
	}
	return New(names), nil
}

// LoadFile reads a CSV or XLSX dataset, chosen by extension.
func LoadFile(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path)
	default:
		return LoadCSV(path)
	}
}

// LoadCSV reads the name column of a CSV file with a header row.
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	col, err := nameIndex(header)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	var names []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", path, err)
		}
		if col < len(record) {
			names = append(names, record[col])
		}
	}
	return New(names), nil
}

// LoadXLSX reads the name column of the first sheet of a workbook.
func LoadXLSX(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s: sheet %s is empty", path, sheets[0])
	}

	col, err := nameIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", path, err)
	}

	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col < len(row) {
			names = append(names, row[col])
		}
	}
	return New(names), nil
}

func nameIndex(header []string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), NameColumn) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no %q column in header %v", NameColumn, header)
}
