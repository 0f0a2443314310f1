// Package handler はpricesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"crypto_monitor/internal/feature/prices/domain/entity"
	"crypto_monitor/internal/feature/prices/transport/http/dto"
)

// PricesUsecase は保存済み価格の参照ユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PricesUsecase interface {
	Latest(ctx context.Context) ([]entity.PriceRecord, error)
	History(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error)
}

// PriceHandler は価格データのHTTPリクエストを処理します。
type PriceHandler struct {
	uc PricesUsecase
}

// NewPriceHandler は指定されたusecaseでPriceHandlerの新しいインスタンスを生成します。
func NewPriceHandler(uc PricesUsecase) *PriceHandler {
	return &PriceHandler{uc: uc}
}

// Latest はシンボルごとの最新価格をJSONで返します。
//
// エンドポイント例:
// GET /prices
func (h *PriceHandler) Latest(c *gin.Context) {
	records, err := h.uc.Latest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponses(records))
}

// History は指定シンボルの価格履歴を新しい順に返します。
//
// エンドポイント例:
// GET /prices/BTCUSDC?limit=50
func (h *PriceHandler) History(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "symbol is required"})
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "limit must be an integer"})
			return
		}
		limit = n
	}

	records, err := h.uc.History(c.Request.Context(), symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no prices for " + symbol})
		return
	}
	c.JSON(http.StatusOK, toResponses(records))
}

func toResponses(records []entity.PriceRecord) []dto.PriceResponse {
	out := make([]dto.PriceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.PriceResponse{
			Symbol:         r.Symbol,
			Price:          r.Price.String(),
			Volume24h:      r.Volume24h.String(),
			PriceChange24h: r.PriceChange24h.StringFixed(2),
			Timestamp:      r.Timestamp.UTC().Format(time.RFC3339),
			Source:         string(r.Source),
		})
	}
	return out
}
