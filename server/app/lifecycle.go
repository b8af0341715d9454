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

package app

import (
	"context"
	"sync"
)

// Component 抽象任何「可啟動 / 可關閉」的長生命週期元件。
// - Run() 應該是阻塞呼叫，直到元件停止為止（正常或錯誤）。
// - Shutdown(ctx) 用於要求優雅關閉；實作方應該尊重 ctx deadline/cancel。
// 典型實例：分組建議的 HTTP Server、非同步 logger 的 drain。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Closer 把「只需要在關閉時做事」的資源包成 Component，例如非同步 logger 的 drain。
// Run 會阻塞到 Shutdown 被呼叫為止。
type Closer struct {
	fn   func(ctx context.Context) error
	done chan struct{}
	once sync.Once
}

// NewCloser 建立 Closer；fn 可為 nil。
func NewCloser(fn func(ctx context.Context) error) *Closer {
	return &Closer{fn: fn, done: make(chan struct{})}
}

func (c *Closer) Run() error {
	<-c.done
	return nil
}

func (c *Closer) Shutdown(ctx context.Context) error {
	c.once.Do(func() { close(c.done) })
	if c.fn == nil {
		return nil
	}
	return c.fn(ctx)
}
