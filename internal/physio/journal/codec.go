package journal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/physiometrics/internal/physio"
)

// SchemaVersion of the line format:
//
//	DD.MM.YYYY;name;acwr;monthly_average;target_intake
//
// Unset numbers are empty fields. Backslash, ';', '\n' and '\r' in the name are
// backslash-escaped. Version 0 lines (date;name;acwr;target_intake) are still
// readable, with the monthly average unset.
const SchemaVersion = 1

const (
	DateLayout     = "02.01.2006"
	fieldSeparator = ';'

	fieldsV0 = 4
	fieldsV1 = 5
)

// EncodeLine renders a record as a single journal line, without the trailing newline.
func EncodeLine(r Record) string {
	var sb strings.Builder
	sb.WriteString(r.Date.Format(DateLayout))
	sb.WriteByte(fieldSeparator)
	sb.WriteString(escapeField(r.UserName))
	sb.WriteByte(fieldSeparator)
	sb.WriteString(formatNumber(r.ACWR, 2))
	sb.WriteByte(fieldSeparator)
	sb.WriteString(formatNumber(r.MonthlyAverage, 2))
	sb.WriteByte(fieldSeparator)
	sb.WriteString(formatNumber(r.TargetIntake, 0))
	return sb.String()
}

// ParseLine parses a single journal line (without the trailing newline).
func ParseLine(line string) (Record, error) {
	fields, err := splitFields(line)
	if err != nil {
		return Record{}, err
	}

	var acwrField, avgField, intakeField string
	switch len(fields) {
	case fieldsV1:
		acwrField, avgField, intakeField = fields[2], fields[3], fields[4]
	case fieldsV0:
		acwrField, intakeField = fields[2], fields[3]
	default:
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, fieldsV1, len(fields))
	}

	date, err := time.ParseInLocation(DateLayout, fields[0], time.UTC)
	if err != nil {
		return Record{}, fmt.Errorf("%w: date: %s", ErrMalformedLine, err)
	}
	if fields[1] == "" {
		return Record{}, fmt.Errorf("%w: %w", ErrMalformedLine, ErrEmptyUserName)
	}

	r := Record{
		Date:     date,
		UserName: fields[1],
	}
	if r.ACWR, err = parseNumber(acwrField); err != nil {
		return Record{}, fmt.Errorf("%w: acwr: %s", ErrMalformedLine, err)
	}
	if r.MonthlyAverage, err = parseNumber(avgField); err != nil {
		return Record{}, fmt.Errorf("%w: monthly average: %s", ErrMalformedLine, err)
	}
	if r.TargetIntake, err = parseNumber(intakeField); err != nil {
		return Record{}, fmt.Errorf("%w: target intake: %s", ErrMalformedLine, err)
	}

	return r, nil
}

func formatNumber(m physio.Metric, decimals int) string {
	v, ok := m.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func parseNumber(field string) (physio.Metric, error) {
	if field == "" {
		return physio.None(), nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return physio.None(), err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return physio.None(), fmt.Errorf("not a finite number: %s", field)
	}
	return physio.Some(v), nil
}

func escapeField(s string) string {
	if !strings.ContainsAny(s, "\\;\n\r") {
		return s
	}
	// bytes, not runes: names that are not valid UTF-8 must survive unchanged
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case fieldSeparator:
			sb.WriteString(`\;`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// splitFields splits on unescaped separators and unescapes each field.
func splitFields(line string) ([]string, error) {
	var fields []string
	var current strings.Builder
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if escaped {
			switch c {
			case '\\', fieldSeparator:
				current.WriteByte(c)
			case 'n':
				current.WriteByte('\n')
			case 'r':
				current.WriteByte('\r')
			default:
				return nil, fmt.Errorf("%w: invalid escape \\%c", ErrMalformedLine, c)
			}
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case fieldSeparator:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if escaped {
		return nil, fmt.Errorf("%w: dangling escape", ErrMalformedLine)
	}
	return append(fields, current.String()), nil
}
