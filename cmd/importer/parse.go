package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

var errUnknownFormat = errors.New("unknown file format (want .json or .csv)")

// parsePoints decodes a source by the extension of its name.
func parsePoints(name string, r io.Reader) ([]domain.POI, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return parseJSON(r)
	case ".csv":
		return parseCSV(r)
	}
	return nil, errUnknownFormat
}

// parseJSON reads an array of points in the API's own representation.
func parseJSON(r io.Reader) ([]domain.POI, error) {
	var pois []domain.POI
	if err := json.NewDecoder(r).Decode(&pois); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return pois, nil
}

// parseCSV reads rows with the columns title, lat and lon, plus optional id
// and subtitle, in any order. Rows without a usable coordinate are skipped.
func parseCSV(r io.Reader) ([]domain.POI, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"title", "lat", "lon"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var pois []domain.POI
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		lat, errLat := strconv.ParseFloat(getField(record, cols, "lat"), 64)
		lon, errLon := strconv.ParseFloat(getField(record, cols, "lon"), 64)
		if errLat != nil || errLon != nil {
			continue
		}

		pois = append(pois, domain.POI{
			ID:       getField(record, cols, "id"),
			Title:    getField(record, cols, "title"),
			Subtitle: getField(record, cols, "subtitle"),
			Location: domain.Coordinate{Lat: lat, Lon: lon},
		})
	}
	return pois, nil
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		// strip BOM
		h = strings.TrimPrefix(h, "\xef\xbb\xbf")
		m[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return m
}

func getField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
