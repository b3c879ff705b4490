package sheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSource reads a worksheet through the Google Sheets v4 API.
type GoogleSource struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewGoogleSource creates a source for the given spreadsheet and tab.
// opts are passed to the Sheets client; production code supplies credentials,
// tests point the client at a local endpoint.
func NewGoogleSource(ctx context.Context, spreadsheetID, worksheet string, opts ...option.ClientOption) (*GoogleSource, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &GoogleSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// NewGoogleSourceFromCredentials authenticates with a service account key file
// and read-only scope.
func NewGoogleSourceFromCredentials(ctx context.Context, credentialsPath, spreadsheetID, worksheet string) (*GoogleSource, error) {
	return NewGoogleSource(ctx, spreadsheetID, worksheet,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
}

// Worksheet returns the title of the tab Rows reads from.
func (g *GoogleSource) Worksheet() string {
	return g.worksheet
}

// Spreadsheet fetches the workbook title and the properties of every tab.
func (g *GoogleSource) Spreadsheet(ctx context.Context) (Spreadsheet, error) {
	resp, err := g.svc.Spreadsheets.Get(g.spreadsheetID).
		Fields("properties.title", "sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return Spreadsheet{}, g.classify(err)
	}

	out := Spreadsheet{}
	if resp.Properties != nil {
		out.Title = resp.Properties.Title
	}
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		ws := Worksheet{
			Index: int(sh.Properties.Index),
			Title: sh.Properties.Title,
		}
		if sh.Properties.GridProperties != nil {
			ws.Rows = int(sh.Properties.GridProperties.RowCount)
		}
		out.Worksheets = append(out.Worksheets, ws)
	}

	return out, nil
}

// Rows returns every populated row of the worksheet as strings.
func (g *GoogleSource) Rows(ctx context.Context) ([][]string, error) {
	meta, err := g.Spreadsheet(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := meta.Find(g.worksheet); !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrWorksheetNotFound, g.worksheet, meta.Title)
	}

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, quoteRange(g.worksheet)).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.classify(err)
	}

	return toStrings(resp.Values), nil
}

// classify maps Sheets API failures onto the package sentinels.
func (g *GoogleSource) classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, g.spreadsheetID)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAccessDenied, g.spreadsheetID)
		}
	}
	return fmt.Errorf("sheets api: %w", err)
}

// quoteRange builds an A1 range selecting a whole tab, quoting titles that
// contain spaces or apostrophes.
func quoteRange(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// toStrings converts API cell values to strings. FORMATTED_VALUE rendering
// already yields strings; other scalars are printed as-is.
func toStrings(values [][]interface{}) [][]string {
	if len(values) == 0 {
		return nil
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch cell := v.(type) {
			case string:
				cells[j] = cell
			case nil:
				cells[j] = ""
			default:
				cells[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = cells
	}
	return rows
}
