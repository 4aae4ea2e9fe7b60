// Package excel reads budget configuration from the monthly finances
// workbook. The workbook is reopened on every call so edits take effect
// without a restart.
package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitaops/vita/internal/apperrors"
	"github.com/vitaops/vita/internal/core/ports"
	"github.com/xuri/excelize/v2"
)

const settingsSheet = "Settings"

// ConfigSource loads tables and settings from a single .xlsx workbook.
type ConfigSource struct {
	path string
}

// NewConfigSource creates a workbook-backed configuration source.
func NewConfigSource(path string) *ConfigSource {
	return &ConfigSource{path: path}
}

var _ ports.ConfigurationSource = (*ConfigSource)(nil)

func (s *ConfigSource) open() (*excelize.File, error) {
	file, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", s.path, err)
	}
	return file, nil
}

// GetTable reads a sheet as a header-keyed table. The first row names the
// columns; blank rows are skipped.
func (s *ConfigSource) GetTable(_ context.Context, sheet string) ([]ports.Row, error) {
	file, err := s.open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w: %w", sheet, apperrors.ErrConfiguration, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row: %w", sheet, apperrors.ErrConfiguration)
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	table := make([]ports.Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(ports.Row, len(headers))
		blank := true
		for i, header := range headers {
			if header == "" || i >= len(cells) {
				continue
			}
			value := strings.TrimSpace(cells[i])
			if value != "" {
				blank = false
			}
			row[header] = value
		}
		if !blank {
			table = append(table, row)
		}
	}
	return table, nil
}

// GetSettings reads the Settings sheet as key/value pairs from the first
// two columns.
func (s *ConfigSource) GetSettings(_ context.Context) (map[string]string, error) {
	file, err := s.open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := file.GetRows(settingsSheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w: %w", settingsSheet, apperrors.ErrConfiguration, err)
	}

	settings := make(map[string]string, len(rows))
	for _, cells := range rows {
		if len(cells) < 2 {
			continue
		}
		key := strings.TrimSpace(cells[0])
		if key == "" {
			continue
		}
		settings[key] = strings.TrimSpace(cells[1])
	}
	return settings, nil
}
