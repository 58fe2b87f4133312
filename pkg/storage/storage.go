package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dtnitsch/gdp-etl/models"
)

type Storage struct{}

// SaveFile replaces filePath with content. The data is written to a temp file
// in the same directory and renamed over the target, so readers see either
// the old file or the new one.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil
}

// SaveCountriesCSV writes a header row plus one row per record, overwriting
// any existing file at path.
func (s *Storage) SaveCountriesCSV(path string, countries []models.Country) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.Header()); err != nil {
		return fmt.Errorf("%w: failed to encode CSV header: %w", models.ErrPersistence, err)
	}
	for _, c := range countries {
		if err := w.Write(c.Row()); err != nil {
			return fmt.Errorf("%w: failed to encode CSV row for %s: %w", models.ErrPersistence, c.Country, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: failed to encode CSV: %w", models.ErrPersistence, err)
	}

	if err := s.SaveFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	return nil
}

// ReadCountriesCSV reads a file written by SaveCountriesCSV.
func (s *Storage) ReadCountriesCSV(path string) ([]models.Country, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", models.ErrParse, path)
	}

	header := models.Header()
	if len(records[0]) != len(header) || records[0][0] != header[0] || records[0][1] != header[1] {
		return nil, fmt.Errorf("%w: %s header = %v, want %v", models.ErrParse, path, records[0], header)
	}

	countries := make([]models.Country, 0, len(records)-1)
	for _, row := range records[1:] {
		c, err := models.CountryFromRow(row)
		if err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, nil
}
