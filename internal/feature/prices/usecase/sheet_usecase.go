package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"crypto_monitor/internal/feature/prices/domain/entity"
)

const (
	// SheetStartCell は書き込み開始セルです。
	SheetStartCell = "A1"
	// SheetTimeLayout は最終更新日時の表示形式です（dd/mm/yyyy hh:mm:ss）。
	SheetTimeLayout = "02/01/2006 15:04:05"
)

// SheetHeader はスプレッドシートのヘッダー行です。
var SheetHeader = []string{
	"Criptomoeda",
	"Preço (USDC)",
	"Variação 24h (%)",
	"Volume 24h",
	"Última Atualização",
}

// RGB is a color with components in [0, 1].
type RGB struct {
	Red, Green, Blue float64
}

// HeaderStyle はヘッダー行に適用する書式です。
type HeaderStyle struct {
	Background RGB
	Foreground RGB
	Bold       bool
}

// DefaultHeaderStyle is dark grey with bold white text.
var DefaultHeaderStyle = HeaderStyle{
	Background: RGB{Red: 0.2, Green: 0.2, Blue: 0.2},
	Foreground: RGB{Red: 1, Green: 1, Blue: 1},
	Bold:       true,
}

// SheetWriter はスプレッドシートへの書き込みを抽象化します。
type SheetWriter interface {
	// Clear はワークシート全体の値をクリアします。
	Clear(ctx context.Context) error
	Write(ctx context.Context, startCell string, rows [][]string) error
	FormatHeader(ctx context.Context, columns int, style HeaderStyle) error
}

// SheetUsecase はレコード一覧でシート全体を置き換えます。
type SheetUsecase struct {
	writer SheetWriter
	loc    *time.Location
}

// NewSheetUsecase は新しい SheetUsecase を作成します。loc が nil の場合は UTC を使用します。
func NewSheetUsecase(writer SheetWriter, loc *time.Location) *SheetUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &SheetUsecase{writer: writer, loc: loc}
}

// Mirror はシートをクリアし、ヘッダーと各レコードの行を書き込み、ヘッダーを装飾します。
// レコードが空の場合は何も書き込みません。
func (su *SheetUsecase) Mirror(ctx context.Context, records []entity.PriceRecord) error {
	if len(records) == 0 {
		slog.Warn("nothing to write to spreadsheet")
		return nil
	}

	rows := su.Rows(records)
	slog.Info("sending rows to spreadsheet", "rows", len(rows))

	if err := su.writer.Clear(ctx); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	if err := su.writer.Write(ctx, SheetStartCell, rows); err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	if err := su.writer.FormatHeader(ctx, len(SheetHeader), DefaultHeaderStyle); err != nil {
		return fmt.Errorf("format header: %w", err)
	}
	return nil
}

// Rows はヘッダー行を含むシートの全行を組み立てます。
func (su *SheetUsecase) Rows(records []entity.PriceRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, SheetHeader)
	for _, r := range records {
		rows = append(rows, []string{
			entity.DisplayName(r.Symbol),
			formatCurrency(r.Price, 2),
			r.PriceChange24h.StringFixed(2) + "%",
			formatCurrency(r.Volume24h, 0),
			r.Timestamp.In(su.loc).Format(SheetTimeLayout),
		})
	}
	return rows
}

// amountPrinter groups thousands the way the sheet displays amounts ("1,234").
var amountPrinter = message.NewPrinter(language.English)

// formatCurrency formats d as "$1,234.56" with the given number of decimal places.
// Only the integer part goes through the printer so the digits stay those of d.
func formatCurrency(d decimal.Decimal, places int32) string {
	r := d.Round(places)
	_, frac, hasFrac := strings.Cut(r.Abs().StringFixed(places), ".")
	out := "$" + amountPrinter.Sprintf("%d", r.Abs().IntPart())
	if hasFrac {
		out += "." + frac
	}
	if r.IsNegative() {
		out = "-" + out
	}
	return out
}
