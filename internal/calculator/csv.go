package calculator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"PremiumSentinel/internal/model"
)

// ErrNoRows is returned when not a single CSV line could be parsed.
var ErrNoRows = errors.New("csv: no parseable rows")

// maxLineBytes bounds a single CSV line. Longer lines are skipped.
const maxLineBytes = 4096

// ParseCSV reads "date,price,refDate,refValue" lines into enriched points.
// Header-like lines (containing "date" or "price"), malformed lines and lines over
// maxLineBytes are skipped.
// Imported points carry no indicator values: RSI, volatility and lag are 0.
func ParseCSV(r io.Reader) ([]model.EnrichedPoint, error) {
	var points []model.EnrichedPoint

	br := bufio.NewReaderSize(r, maxLineBytes)
	for {
		raw, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isPrefix {
			// longer than maxLineBytes: never a valid row, drop it whole
			if err := skipRestOfLine(br); err != nil && err != io.EOF {
				return nil, fmt.Errorf("read csv: %w", err)
			}
			continue
		}
		line := strings.TrimSpace(string(raw))
		if line == "" || isHeader(line) {
			continue
		}
		if p, ok := parseLine(line); ok {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return nil, ErrNoRows
	}
	return points, nil
}

func skipRestOfLine(br *bufio.Reader) error {
	for {
		_, isPrefix, err := br.ReadLine()
		if err != nil {
			return err
		}
		if !isPrefix {
			return nil
		}
	}
}

// ParseCSVString is ParseCSV over an in-memory string.
func ParseCSVString(s string) ([]model.EnrichedPoint, error) {
	return ParseCSV(strings.NewReader(s))
}

func isHeader(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "date") || strings.Contains(l, "price")
}

func parseLine(line string) (model.EnrichedPoint, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return model.EnrichedPoint{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	date, err := model.ParseDate(parts[0])
	if err != nil {
		return model.EnrichedPoint{}, false
	}
	price, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || !finitePositive(price) {
		return model.EnrichedPoint{}, false
	}
	refDate, err := model.ParseDate(parts[2])
	if err != nil {
		return model.EnrichedPoint{}, false
	}
	ref, err := strconv.ParseFloat(parts[3], 64)
	if err != nil || !finitePositive(ref) {
		return model.EnrichedPoint{}, false
	}

	return model.EnrichedPoint{
		Date:           date,
		ClosePrice:     price,
		RefDate:        refDate,
		ReferenceValue: ref,
		PremiumRate:    PremiumRate(price, ref),
		Source:         model.SourceCSV,
		IsReal:         true,
	}, true
}
