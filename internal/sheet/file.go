package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FileSource reads a local spreadsheet export. Workbooks (.xlsx, .xlsm) are
// read with excelize; .csv files are treated as a single worksheet.
type FileSource struct {
	path      string
	worksheet string
	decoder   *encoding.Decoder
}

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithLatin1 decodes CSV exports saved as Windows-1252, the default of
// spreadsheet programs on pt-BR systems.
func WithLatin1() FileOption {
	return func(f *FileSource) {
		f.decoder = charmap.Windows1252.NewDecoder()
	}
}

// NewFileSource creates a source for path. An empty worksheet selects the
// first tab of a workbook.
func NewFileSource(path, worksheet string, opts ...FileOption) *FileSource {
	f := &FileSource{
		path:      path,
		worksheet: worksheet,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Worksheet returns the title of the tab Rows reads from.
func (f *FileSource) Worksheet() string {
	if f.isCSV() {
		return f.csvTitle()
	}
	return f.worksheet
}

// Rows returns the header and data rows of the configured worksheet.
func (f *FileSource) Rows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.isCSV() {
		return f.readCSV()
	}

	wb, err := f.open()
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	name, err := f.resolveWorksheet(wb)
	if err != nil {
		return nil, err
	}

	rows, err := wb.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return rows, ctx.Err()
}

// Spreadsheet lists the tabs of the workbook with their populated row counts.
func (f *FileSource) Spreadsheet(ctx context.Context) (Spreadsheet, error) {
	if err := ctx.Err(); err != nil {
		return Spreadsheet{}, err
	}

	title := strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))

	if f.isCSV() {
		rows, err := f.readCSV()
		if err != nil {
			return Spreadsheet{}, err
		}
		return Spreadsheet{
			Title:      title,
			Worksheets: []Worksheet{{Index: 0, Title: f.csvTitle(), Rows: len(rows)}},
		}, nil
	}

	wb, err := f.open()
	if err != nil {
		return Spreadsheet{}, err
	}
	defer wb.Close()

	out := Spreadsheet{Title: title}
	for i, name := range wb.GetSheetList() {
		rows, err := wb.GetRows(name)
		if err != nil {
			return Spreadsheet{}, fmt.Errorf("read worksheet %q: %w", name, err)
		}
		out.Worksheets = append(out.Worksheets, Worksheet{Index: i, Title: name, Rows: len(rows)})
	}

	return out, nil
}

func (f *FileSource) isCSV() bool {
	return strings.EqualFold(filepath.Ext(f.path), ".csv")
}

func (f *FileSource) csvTitle() string {
	return strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))
}

// open opens the workbook, mapping a missing file to ErrSpreadsheetNotFound.
func (f *FileSource) open() (*excelize.File, error) {
	wb, err := excelize.OpenFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, f.path)
		}
		return nil, fmt.Errorf("open workbook %s: %w", f.path, err)
	}
	return wb, nil
}

// resolveWorksheet returns the tab to read, failing when it does not exist.
func (f *FileSource) resolveWorksheet(wb *excelize.File) (string, error) {
	if f.worksheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return "", fmt.Errorf("%w: workbook %s has no tabs", ErrWorksheetNotFound, f.path)
		}
		return sheets[0], nil
	}

	idx, err := wb.GetSheetIndex(f.worksheet)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("%w: %q in %s", ErrWorksheetNotFound, f.worksheet, f.path)
	}
	return f.worksheet, nil
}

// readCSV reads the whole file, dropping a UTF-8 BOM and replacing invalid
// sequences. The delimiter is sniffed from the header line.
func (f *FileSource) readCSV() ([][]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, f.path)
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	dec := f.decoder
	if dec == nil {
		dec = unicode.UTF8.NewDecoder()
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(dec), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}

	return parseCSV(strings.NewReader(string(text)), sniffDelimiter(string(text)))
}

func parseCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than
// commas, which is how pt-BR spreadsheet programs export CSV.
func sniffDelimiter(text string) rune {
	header := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		header = text[:i]
	}
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}
