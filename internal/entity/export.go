package entity

import "fmt"

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return ExportFormat(s), nil
	case "", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, s)
	}
}
