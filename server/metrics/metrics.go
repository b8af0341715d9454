// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics 提供 Prometheus 指標：建議次數（依結果分類）、搜尋耗時、frontier 峰值與 HTTP 請求數。
//
// 每個 Metrics 使用自己的 Registry，測試或同一程序內多個 server 不會互相衝突。
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zintix-labs/flexcat/errs"
)

type Metrics struct {
	reg      *prometheus.Registry
	suggests *prometheus.CounterVec
	latency  prometheus.Histogram
	peak     prometheus.Histogram
	roster   prometheus.Histogram
	requests *prometheus.CounterVec
}

// New 建立並註冊所有指標
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		suggests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flexcat",
			Name:      "suggest_total",
			Help:      "Number of suggestions by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flexcat",
			Name:      "suggest_duration_seconds",
			Help:      "Time spent in a suggestion (matrix, search, ranking).",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		peak: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flexcat",
			Name:      "search_peak_frontier",
			Help:      "Largest frontier seen during a search.",
			Buckets:   prometheus.ExponentialBuckets(1, 8, 8),
		}),
		roster: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flexcat",
			Name:      "roster_size",
			Help:      "Competitors per suggestion.",
			Buckets:   []float64{2, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flexcat",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status.",
		}, []string{"method", "status"}),
	}
	m.reg.MustRegister(
		m.suggests, m.latency, m.peak, m.roster, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Outcome 把錯誤轉成指標標籤：例如 "ok"、"infeasible"、"deadline"
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	if c := errs.CodeOf(err); c != errs.CodeNone {
		return c.String()
	}
	return "error"
}

// ObserveSuggest 記錄一次建議。成功時 peak 與 n 才有意義。
func (m *Metrics) ObserveSuggest(err error, d time.Duration, n int, peak int) {
	if m == nil {
		return
	}
	m.suggests.WithLabelValues(Outcome(err)).Inc()
	m.latency.Observe(d.Seconds())
	if n > 0 {
		m.roster.Observe(float64(n))
	}
	if err == nil {
		m.peak.Observe(float64(peak))
	}
}

// Handler 回傳 /metrics 的 http.Handler；壓縮交給 middleware.Compression
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg, DisableCompression: true})
}

// Registry 供測試讀取指標
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Middleware 統計 HTTP 請求數
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.requests.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
