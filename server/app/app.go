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

// Package app 管理長期運行元件（HTTP server、非同步 logger）的啟動與關閉。
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 關閉所有元件的總期限
const DefaultShutdownTimeout = 5 * time.Second

// App 啟動所有 Component，收到 SIGINT/SIGTERM 或任一 Component 結束時依註冊順序關閉。
// 註冊順序即關閉順序：server 先停止接收請求，logger 最後 drain。
type App struct {
	comps []Component
	// ShutdownTimeout <= 0 時使用 DefaultShutdownTimeout
	ShutdownTimeout time.Duration
}

func New() *App { return &App{} }

// NewWith 建立並依序註冊 comps
func NewWith(comps ...Component) *App {
	app := New()
	for _, c := range comps {
		app.Register(c)
	}
	return app
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// Run 阻塞到收到終止信號（回傳 nil）或任一 Component.Run 返回（回傳其錯誤，正常結束為 nil）。
// 兩種情況都會先呼叫所有 Shutdown。
func (a *App) Run() error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errCh:
	}
	if err := a.shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown err: %v\n", err)
	}
	return runErr
}

// shutdown 在期限內依序呼叫所有 Shutdown，錯誤合併後回傳。
func (a *App) shutdown() error {
	td := a.ShutdownTimeout
	if td <= 0 {
		td = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), td)
	defer cancel()
	var all []error
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}
