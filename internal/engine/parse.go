package engine

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/daryltucker/flexsweep/internal/model"
)

// NotAvailable replaces a measurement the tool reported in an unreadable form.
const NotAvailable = "n/a"

const (
	headersPrefix = "HEADERS: "
	valuesPrefix  = "VALUES: "
)

// ParseSummaryReport reads the two-line report format: the achieved clock
// frequency on line 1, then space separated name:used:total triples on line
// 2. Each triple becomes a "<name> (Used)" and a "<name> (Total)" field.
// An unreadable frequency is reported as NotAvailable.
func ParseSummaryReport(r io.Reader) ([]model.Param, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrapf(model.ErrResultParse, "read report: %v", err)
		}
		return nil, errors.Wrap(model.ErrResultParse, "empty report")
	}

	fmax := strings.TrimSpace(sc.Text())
	if _, err := strconv.ParseFloat(fmax, 64); err != nil {
		fmax = NotAvailable
	}
	fields := []model.Param{{Name: "fMax", Value: fmax}}

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrapf(model.ErrResultParse, "read report: %v", err)
		}
		return fields, nil
	}
	for _, item := range strings.Fields(sc.Text()) {
		parts := strings.Split(item, ":")
		if len(parts) != 3 || parts[0] == "" {
			return nil, errors.Wrapf(model.ErrResultParse, "malformed resource %q, want name:used:total", item)
		}
		for _, n := range parts[1:] {
			if _, err := strconv.Atoi(n); err != nil {
				return nil, errors.Wrapf(model.ErrResultParse, "resource %s: count %q is not an integer", parts[0], n)
			}
		}
		fields = append(fields,
			model.Param{Name: parts[0] + " (Used)", Value: parts[1]},
			model.Param{Name: parts[0] + " (Total)", Value: parts[2]},
		)
	}
	return fields, nil
}

// ParseHeaderValues reads the prefixed format from tool output:
//
//	HEADERS: fMax,ALMs (Used),...
//	VALUES: 245.1,1200,...
//
// The last occurrence of each line wins. Other lines are ignored.
func ParseHeaderValues(out string) ([]model.Param, error) {
	var headers, values []string
	var sawHeaders, sawValues bool

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, headersPrefix):
			headers = strings.Split(line[len(headersPrefix):], ",")
			sawHeaders = true
		case strings.HasPrefix(line, valuesPrefix):
			values = strings.Split(line[len(valuesPrefix):], ",")
			sawValues = true
		}
	}

	if !sawHeaders {
		return nil, errors.Wrap(model.ErrResultParse, "missing HEADERS line")
	}
	if !sawValues {
		return nil, errors.Wrap(model.ErrResultParse, "missing VALUES line")
	}
	if len(headers) != len(values) {
		return nil, errors.Wrapf(model.ErrResultParse, "%d headers but %d values", len(headers), len(values))
	}

	fields := make([]model.Param, len(headers))
	for i := range headers {
		fields[i] = model.Param{Name: headers[i], Value: values[i]}
	}
	return fields, nil
}

// resultRecord builds the record for c followed by the measured fields. A
// field named like a parameter would hide the parameter's value, so it is
// rejected.
func resultRecord(c model.Combination, fields []model.Param) (model.Record, error) {
	r := model.NewRecord(c)
	for _, f := range fields {
		if c.Has(f.Name) {
			return model.Record{}, errors.Wrapf(model.ErrResultParse,
				"result column %q collides with a parameter of the same name", f.Name)
		}
		r.Set(f.Name, f.Value)
	}
	return r, nil
}
