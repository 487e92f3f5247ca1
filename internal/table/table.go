// Package table reads and writes the CSV files the engine consumes and
// produces: target-profile lists, topic lists and scraped results.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ajrudell/engagekit/internal/types"
)

// Column headers. Files are expected to carry these names exactly; a
// missing required column is reported before any browser work starts.
const (
	ColumnName            = "Name"
	ColumnProfileLink     = "Profile Link"
	ColumnHeadline        = "Headline"
	ColumnLocation        = "Location"
	ColumnCurrentPosition = "Current Position"
	ColumnTopics          = "Topics"
	ColumnPostData        = "Post Data"
)

var profileHeader = []string{
	ColumnName,
	ColumnProfileLink,
	ColumnHeadline,
	ColumnLocation,
	ColumnCurrentPosition,
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		// Spreadsheet exports often prepend a UTF-8 BOM.
		rows[0][0] = strings.TrimPrefix(rows[0][0], "﻿")
	}
	return rows, nil
}

// columnIndex maps header names to positions, trimming stray whitespace.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadProfiles loads profile records from a CSV file. The Profile Link
// column is required; the remaining columns are optional and default to
// empty strings.
func ReadProfiles(path string) ([]types.ProfileRecord, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: file is empty", path)
	}

	idx := columnIndex(rows[0])
	linkCol, ok := idx[ColumnProfileLink]
	if !ok {
		return nil, fmt.Errorf("%s: required column %q not found", path, ColumnProfileLink)
	}
	nameCol, hasName := idx[ColumnName]
	if !hasName {
		nameCol = -1
	}
	headlineCol, ok := idx[ColumnHeadline]
	if !ok {
		headlineCol = -1
	}
	locationCol, ok := idx[ColumnLocation]
	if !ok {
		locationCol = -1
	}
	positionCol, ok := idx[ColumnCurrentPosition]
	if !ok {
		positionCol = -1
	}

	records := make([]types.ProfileRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, types.ProfileRecord{
			Name:            cell(row, nameCol),
			ProfileLink:     cell(row, linkCol),
			Headline:        cell(row, headlineCol),
			Location:        cell(row, locationCol),
			CurrentPosition: cell(row, positionCol),
		})
	}
	return records, nil
}

// WriteProfiles rewrites path with the full record set. Pagination progress
// is persisted by whole-file rewrite after every page, so partial-write
// formats are deliberately avoided.
func WriteProfiles(path string, records []types.ProfileRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(profileHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Name, rec.ProfileLink, rec.Headline, rec.Location, rec.CurrentPosition}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// ReadTopics loads the Topics column from a CSV file, skipping blank rows.
func ReadTopics(path string) ([]string, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: file is empty", path)
	}

	idx := columnIndex(rows[0])
	col, ok := idx[ColumnTopics]
	if !ok {
		return nil, fmt.Errorf("%s: required column %q not found", path, ColumnTopics)
	}

	var topics []string
	for _, row := range rows[1:] {
		if t := cell(row, col); t != "" {
			topics = append(topics, t)
		}
	}
	return topics, nil
}

// WritePosts rewrites path with generated post texts in a single Post Data
// column. Called after every topic so an interrupted run keeps its output.
func WritePosts(path string, posts []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{ColumnPostData}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range posts {
		if err := w.Write([]string{p}); err != nil {
			return fmt.Errorf("failed to write post: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
