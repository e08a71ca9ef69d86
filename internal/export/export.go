// Package export renders the item list as JSON, CSV or PDF.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todo-list/internal/store"
)

var ErrUnknownFormat = errors.New("unknown export format")

var contentTypes = map[string]string{
	"json": "application/json",
	"csv":  "text/csv",
	"pdf":  "application/pdf",
}

// ContentType returns the MIME type for a format, or "" if unknown.
func ContentType(format string) string { return contentTypes[strings.ToLower(format)] }

type Exporter struct{ st store.ItemStore }

func NewExporter(st store.ItemStore) *Exporter { return &Exporter{st: st} }

func (e *Exporter) Export(ctx context.Context, format string) ([]byte, error) {
	format = strings.ToLower(format)
	if _, ok := contentTypes[format]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	all, err := e.st.All(ctx)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return json.MarshalIndent(all, "", "  ")
	case "csv":
		return toCSV(all)
	default:
		return toPDF(all)
	}
}

func toCSV(items []store.Item) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "text", "completed", "created_at", "updated_at"})
	for _, it := range items {
		_ = w.Write([]string{
			strconv.FormatInt(it.ID, 10),
			it.Text,
			strconv.FormatBool(it.Completed),
			it.CreatedAt.Format(time.RFC3339),
			it.UpdatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func toPDF(items []store.Item) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Todo List")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(items) == 0 {
		pdf.Cell(40, 6, "No items in list")
	}
	for _, it := range items {
		status := "Not Completed"
		if it.Completed {
			status = "Completed"
		}
		line := fmt.Sprintf("#%d  %s  [%s]", it.ID, it.Text, status)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
