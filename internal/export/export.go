// Package export renders a task list for sharing or printing.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdxmph/todo-tui/internal/task"
)

// Formats lists the supported export formats
var Formats = []string{"json", "csv", "pdf"}

type row struct {
	Task     string `json:"task"`
	Priority string `json:"priority"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// Write renders tasks to w in the given format
func Write(w io.Writer, tasks []task.Task, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return writeJSON(w, tasks)
	case "csv":
		return writeCSV(w, tasks)
	case "pdf":
		return writePDF(w, tasks, time.Now())
	default:
		return fmt.Errorf("unknown format %s (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeJSON(w io.Writer, tasks []task.Task) error {
	rows := make([]row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, row{t.Description, string(t.Priority), t.DateAdded, string(t.Status)})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Task", "Priority", "Date", "Status"}); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := cw.Write([]string{t.Description, string(t.Priority), t.DateAdded, string(t.Status)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []task.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task List", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(8)

	pending, completed := 0, 0
	for _, t := range tasks {
		if t.IsCompleted() {
			completed++
		} else {
			pending++
		}
	}
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%s - %d pending, %d completed", now.Format(task.DateLayout), pending, completed))
	pdf.Ln(10)

	widths := []float64{100, 25, 30, 25}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"Task", "Priority", "Date Added", "Status"} {
		pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	// gofpdf core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		if t.IsCompleted() {
			pdf.SetTextColor(128, 128, 128)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		cells := []string{tr(t.Description), string(t.Priority), t.DateAdded, string(t.Status)}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
