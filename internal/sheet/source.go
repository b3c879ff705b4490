// Package sheet fetches participant rows from tabular stores.
//
// Every implementation returns the raw grid: the first row is the header,
// the remaining rows are data, and every cell is a string. Interpreting the
// grid is left to the caller.
package sheet

import (
	"context"
	"errors"
)

var (
	// ErrSpreadsheetNotFound is returned when the spreadsheet (or local file)
	// does not exist or is not visible to the configured credentials.
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

	// ErrWorksheetNotFound is returned when the spreadsheet has no tab with
	// the requested title.
	ErrWorksheetNotFound = errors.New("worksheet not found")

	// ErrAccessDenied is returned when the credentials are valid but lack
	// permission to read the spreadsheet.
	ErrAccessDenied = errors.New("spreadsheet access denied")
)

// Source supplies the raw rows of one worksheet.
type Source interface {
	// Rows returns the header row followed by the data rows.
	// An empty worksheet returns a nil slice and no error.
	Rows(ctx context.Context) ([][]string, error)

	// Spreadsheet describes the spreadsheet and all of its worksheets.
	Spreadsheet(ctx context.Context) (Spreadsheet, error)

	// Worksheet returns the title of the tab Rows reads from.
	Worksheet() string
}

// Spreadsheet is the metadata of a workbook.
type Spreadsheet struct {
	Title      string      `json:"planilha"`
	Worksheets []Worksheet `json:"abas"`
}

// Worksheet is a single tab of a spreadsheet.
type Worksheet struct {
	Index int    `json:"indice"`
	Title string `json:"titulo"`
	Rows  int    `json:"linhas"`
}

// Find returns the worksheet with the given title.
func (s Spreadsheet) Find(title string) (Worksheet, bool) {
	for _, ws := range s.Worksheets {
		if ws.Title == title {
			return ws, true
		}
	}
	return Worksheet{}, false
}
