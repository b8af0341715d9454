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

package svrcfg

import (
	"log/slog"
	"math"
	"time"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/server/logger"
	"github.com/zintix-labs/flexcat/server/metrics"
)

const (
	DefaultMaxRoster int           = 1000
	maxRosterCap     int           = 20000
	DefaultTimeout   time.Duration = 5 * time.Second
	maxTimeout       time.Duration = time.Minute
)

type SvrCfg struct {
	Log         *slog.Logger
	Addr        string               // 空字串使用預設 ":5808"
	Partitioner *flexcat.Partitioner // 預設設定；請求可帶 setting 覆蓋
	Metrics     *metrics.Metrics     // nil 時自動建立
	MaxRoster   int                  // 單次請求人數上限
	Timeout     time.Duration        // 單次搜尋的期限
	RateLimit   float64              // /v1 每秒請求數上限，0 為不限制
	Burst       int                  // RateLimit 的突發量，<= 0 時等於 ceil(RateLimit)
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Partitioner == nil {
		return errs.NewFatal("partitioner is required")
	}
	if sc.Metrics == nil {
		sc.Metrics = metrics.New()
	}

	// 1 <= MaxRoster <= 20000
	if sc.MaxRoster <= 0 {
		sc.MaxRoster = DefaultMaxRoster
	}
	sc.MaxRoster = min(maxRosterCap, sc.MaxRoster)

	// 0 < Timeout <= 1m
	if sc.Timeout <= 0 {
		sc.Timeout = DefaultTimeout
	}
	sc.Timeout = min(maxTimeout, sc.Timeout)

	if sc.RateLimit < 0 {
		sc.RateLimit = 0
	}
	if sc.RateLimit > 0 && sc.Burst <= 0 {
		sc.Burst = int(math.Ceil(sc.RateLimit))
	}
	return nil
}
