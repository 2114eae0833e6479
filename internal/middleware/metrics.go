package middleware

import (
	"net/http"
	"time"
)

// MetricsRecorder はリクエストメトリクス記録のインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordRequest(method string, statusCode int, duration time.Duration)
	RecordAuthFailure()
}

// NewMetricsMiddleware はリクエストごとのメトリクスを記録するミドルウェアを返す。
// 401レスポンスは認証失敗としても別途カウントする。
func NewMetricsMiddleware(recorder MetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordRequest(r.Method, rec.statusCode, time.Since(start))
			if rec.statusCode == http.StatusUnauthorized {
				recorder.RecordAuthFailure()
			}
		})
	}
}
