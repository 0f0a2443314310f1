package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	pricehandler "crypto_monitor/internal/feature/prices/transport/handler"
	symbollisthandler "crypto_monitor/internal/feature/symbollist/transport/handler"
	"crypto_monitor/internal/platform/http/handler"
	jwtmw "crypto_monitor/internal/platform/jwt"
)

// Options はルーター生成時の設定です。
type Options struct {
	JWTSecret      string
	AllowedOrigins []string        // 空の場合は CORS ミドルウェアを登録しない
	HealthChecks   []handler.Check // /healthz で実行する依存先チェック
}

// NewRouter は /healthz と認証付きの参照APIを登録した gin.Engine を返します。
func NewRouter(prices *pricehandler.PriceHandler, symbols *symbollisthandler.SymbolHandler, opts Options) *gin.Engine {
	r := gin.Default()

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	health := handler.Health(opts.HealthChecks...)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// 認証必須のルート
	auth := r.Group("/")
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/prices", prices.Latest)
		auth.GET("/prices/:symbol", prices.History)
		auth.GET("/symbols", symbols.List)
	}

	return r
}
