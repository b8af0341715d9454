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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/server/api"
	"github.com/zintix-labs/flexcat/server/app"
	"github.com/zintix-labs/flexcat/server/logger"
	"github.com/zintix-labs/flexcat/server/netsvr"
	"github.com/zintix-labs/flexcat/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口。
//
// 它負責：
//  1. 驗證 SvrCfg（logger、Partitioner、Metrics、上限）。
//  2. 建立 HTTP server（netsvr），Addr 為空時使用 ":5808"。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 啟動 app.Run()，收到訊號後關閉 server，再 drain 非同步 logger。
//
// 注意：Run 不讀任何檔案或環境變數；設定檔由呼叫端（cmd/svr）載入後注入。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	var svr *netsvr.ChiAdapter
	if sCfg.Addr == "" {
		svr = netsvr.NewChiServerDefault()
	} else {
		svr = netsvr.NewChiServer(sCfg.Addr)
	}
	sCfg.Log.Info("[flexcat] listening on http://localhost" + svr.Address())
	RunWithSvr(sCfg, svr)
}

// RunWithSvr 與 Run() 相同，但允許注入自訂的 NetSvr（自己的 listener、timeout、TLS 等）。
//
//   - svr 必須非 nil；若是 ChiAdapter 會要求 Ready() 為 true。
//   - 這一層只負責註冊 routes 與啟動 app.Run()。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	} else {
		if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
			sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
			return
		}
	}

	// 註冊 Api
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		sCfg.Log.Error("register routes failed", slog.Any("err", err))
		return
	}

	// 運行：server 先關，logger 最後 drain
	a := app.NewWith(svr)
	if ah, ok := sCfg.Log.Handler().(*logger.AsyncHandler); ok {
		a.Register(app.NewCloser(func(context.Context) error {
			if dropped := ah.Close(); dropped > 0 {
				fmt.Fprintf(os.Stderr, "logger dropped %d records\n", dropped)
			}
			return nil
		}))
	}
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
}

// Handler 組出完整的 http.Handler（含 middleware 與所有路由），但不監聽。
// 給 httptest 或要把 flexcat 掛到既有服務底下的呼叫端使用。
func Handler(sCfg *svrcfg.SvrCfg) (http.Handler, error) {
	if err := sCfg.Vaild(); err != nil {
		return nil, err
	}
	svr := netsvr.NewChiServerDefault()
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return nil, err
	}
	return svr.Handler(), nil
}
