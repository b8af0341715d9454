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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/flexcat/server/api/v1"
	"github.com/zintix-labs/flexcat/server/netsvr"
	"github.com/zintix-labs/flexcat/server/netsvr/middleware"
	"github.com/zintix-labs/flexcat/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg)   // 1. 註冊 middleware
	registerIndex(svr, sCfg)        // 2. 註冊主頁、健康檢查、指標
	return registerV1API(svr, sCfg) // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	svr.Use(sCfg.Metrics.Middleware)
	svr.Use(middleware.Compression)
}

var endpoints = []string{
	"GET  /healthz",
	"GET  /metrics",
	"GET  /v1/setting",
	"POST /v1/compat",
	"POST /v1/suggest",
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service":   "flexcat",
			"endpoints": endpoints,
		})
	})
	svr.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mh := sCfg.Metrics.Handler()
	svr.Get("/metrics", mh.ServeHTTP)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	s, err := v1.NewSuggestHandler(sCfg)
	if err != nil {
		sCfg.Log.Error("register v1 failed", slog.Any("err", err))
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Use(middleware.RateLimit(sCfg.RateLimit, sCfg.Burst))
		vOne.Get("/setting", v1.Setting(sCfg.Partitioner))
		vOne.Post("/compat", v1.Compat(sCfg.Partitioner, sCfg.MaxRoster))
		vOne.Post("/suggest", s.Suggest)
	})
	return nil
}
