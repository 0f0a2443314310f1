package gsheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"crypto_monitor/internal/feature/prices/usecase"
)

// GoogleSheet は Google Sheets API v4 を使用した SheetWriter 実装です。
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	title         string
	sheetID       int64
	resolved      bool
	timeout       time.Duration
}

// GoogleSheetがSheetWriterを実装していることをコンパイル時に検証します。
var _ usecase.SheetWriter = (*GoogleSheet)(nil)

// NewGoogleSheet はサービスアカウント認証で GoogleSheet を生成します。
// opts が指定された場合は認証情報の代わりにそれを使用します（テスト用のエンドポイント差し替えなど）。
func NewGoogleSheet(ctx context.Context, cfg Config, opts ...option.ClientOption) (*GoogleSheet, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("gsheets: spreadsheet id is empty")
	}
	if len(opts) == 0 {
		creds, err := ParseCredentials(ctx, cfg.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("gsheets: %w", err)
		}
		opts = []option.ClientOption{option.WithCredentials(creds)}
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gsheets: create service: %w", err)
	}
	return &GoogleSheet{svc: svc, spreadsheetID: cfg.SpreadsheetID, title: cfg.SheetTitle, timeout: cfg.Timeout}, nil
}

// resolve looks up the worksheet id and title once per client.
func (g *GoogleSheet) resolve(ctx context.Context) error {
	if g.resolved {
		return nil
	}
	ss, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: get spreadsheet: %w", err)
	}
	if len(ss.Sheets) == 0 {
		return errors.New("gsheets: spreadsheet has no worksheets")
	}

	found := false
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		if g.title == "" || s.Properties.Title == g.title {
			g.title = s.Properties.Title
			g.sheetID = s.Properties.SheetId
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("gsheets: worksheet %q not found", g.title)
	}
	g.resolved = true
	return nil
}

// withTimeout bounds a single API call by the configured timeout.
func (g *GoogleSheet) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// quotedTitle is the worksheet title as an A1 sheet reference. Used alone it covers the whole worksheet.
func (g *GoogleSheet) quotedTitle() string {
	return "'" + strings.ReplaceAll(g.title, "'", "''") + "'"
}

// a1 prefixes rng with the quoted worksheet title.
func (g *GoogleSheet) a1(rng string) string {
	return g.quotedTitle() + "!" + rng
}

// Clear はワークシート全体の値をクリアします（書式は残ります）。
func (g *GoogleSheet) Clear(ctx context.Context) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if err := g.resolve(ctx); err != nil {
		return err
	}
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, g.quotedTitle(), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return err
}

// Write は startCell から rows を書き込みます。値は整形済み文字列のまま保存されます。
func (g *GoogleSheet) Write(ctx context.Context, startCell string, rows [][]string) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if err := g.resolve(ctx); err != nil {
		return err
	}
	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		row := make([]interface{}, 0, len(r))
		for _, c := range r {
			row = append(row, c)
		}
		values = append(values, row)
	}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, g.a1(startCell), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return err
}

// FormatHeader は1行目の先頭 columns 列に背景色と文字書式を適用します。
func (g *GoogleSheet) FormatHeader(ctx context.Context, columns int, style usecase.HeaderStyle) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if err := g.resolve(ctx); err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          g.sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
					ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: toColor(style.Background),
						TextFormat: &sheets.TextFormat{
							Bold:            style.Bold,
							ForegroundColor: toColor(style.Foreground),
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return err
}

func toColor(c usecase.RGB) *sheets.Color {
	return &sheets.Color{
		Red:             c.Red,
		Green:           c.Green,
		Blue:            c.Blue,
		ForceSendFields: []string{"Red", "Green", "Blue"},
	}
}
