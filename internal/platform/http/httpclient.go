// Package http は外部API呼び出し用のHTTPクライアントを提供します。
package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConns: 取得対象は数シンボルのみのため小さめに設定
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（プロバイダごとに呼び出し元から渡される）
//
// すべてのリクエストはデバッグレベルでステータスと所要時間がログに出力されます。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: &loggingTransport{next: t}}
}

// loggingTransport logs every round trip at debug level.
type loggingTransport struct {
	next http.RoundTripper
}

func (l *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := l.next.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		slog.Debug("http request failed", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "elapsed", elapsed, "error", err)
		return nil, err
	}
	slog.Debug("http request", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "status", res.StatusCode, "elapsed", elapsed)
	return res, nil
}
