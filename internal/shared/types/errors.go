package types

import "errors"

var (
	ErrUnsupportedFormat     = errors.New("unsupported output format, use markdown or terminal")
	ErrUnsupportedReportType = errors.New("unsupported report type, use csv, json or pdf")
)
