package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_monitor/internal/feature/prices/domain/entity"
	pricehandler "crypto_monitor/internal/feature/prices/transport/handler"
	symbollistadapters "crypto_monitor/internal/feature/symbollist/adapters"
	symbollisthandler "crypto_monitor/internal/feature/symbollist/transport/handler"
	symbollistusecase "crypto_monitor/internal/feature/symbollist/usecase"
	jwtmw "crypto_monitor/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubPrices struct{}

func (stubPrices) Latest(ctx context.Context) ([]entity.PriceRecord, error) {
	return []entity.PriceRecord{}, nil
}

func (stubPrices) History(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error) {
	return nil, nil
}

const testSecret = "router-test-secret"

func newTestRouter(origins ...string) *gin.Engine {
	catalog := symbollistadapters.NewConfigCatalog(entity.DefaultSymbols, entity.DefaultSymbolMapping())
	symbols := symbollisthandler.NewSymbolHandler(symbollistusecase.NewSymbolUsecase(catalog))
	return NewRouter(pricehandler.NewPriceHandler(stubPrices{}), symbols, Options{
		JWTSecret:      testSecret,
		AllowedOrigins: origins,
	})
}

func TestNewRouter_HealthIsPublic(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRouter_PricesRequireToken(t *testing.T) {
	t.Parallel()

	r := newTestRouter()

	for _, path := range []string{"/prices", "/prices/BTCUSDC", "/symbols"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestNewRouter_PricesWithToken(t *testing.T) {
	t.Parallel()

	token, err := jwtmw.NewGenerator(testSecret, time.Hour).GenerateToken("dashboard")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/prices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestNewRouter_CORS(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	w := httptest.NewRecorder()
	newTestRouter("https://dashboard.example").ServeHTTP(w, req)

	assert.Equal(t, "https://dashboard.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_Symbols(t *testing.T) {
	t.Parallel()

	token, err := jwtmw.NewGenerator(testSecret, time.Hour).GenerateToken("dashboard")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/symbols", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"code":"BTCUSDC","name":"BTC","fallback_id":"bitcoin"}`)
}
