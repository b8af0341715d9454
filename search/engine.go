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

// Package search 在排序後的名單上，以有限回合的廣度優先方式列舉「連續分組」。
//
// 每一回合對每條進行中的路徑追加恰好一組；下一組的大小取自 {1..M(T)}，
// 再由 Policy 剪枝（預設 TopK{Width:3}）。回合數用完即停止，回傳所有已完成的路徑。
//
// 注意：需要的組數超過回合上限的可行分組永遠不會被找到，這是可設定的限制，不是錯誤。
package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zintix-labs/flexcat/compat"
	"github.com/zintix-labs/flexcat/errs"
)

const (
	// DefaultMaxRounds 預設回合上限（等同最多可找到的組數）
	DefaultMaxRounds int = 12
	// DefaultMaxPaths 單一回合 frontier 的上限
	DefaultMaxPaths int = 1_000_000
	// 每個 worker 至少分到的節點數，避免小 frontier 也開 goroutine
	minChunk int = 256
)

// Config 為搜尋參數
type Config struct {
	MaxRounds int    // 回合上限；<= 0 使用 DefaultMaxRounds
	Policy    Policy // 剪枝策略；nil 使用 TopK{Width: DefaultBranchWidth}
	MaxPaths  int    // frontier 上限；<= 0 使用 DefaultMaxPaths
	Workers   int    // 平行展開數；<= 1 為單線程

	// OnRound 在每回合結束後呼叫（可為 nil），供呼叫端記錄 log 或進度。
	OnRound func(st RoundStat)
}

// RoundStat 單一回合的摘要
type RoundStat struct {
	Round    int // 從 1 開始
	Frontier int
	Active   int
	Complete int
}

// Outcome 為搜尋結果
type Outcome struct {
	Paths  []Path // 已完成路徑（發現順序）
	Rounds int    // 實際執行的回合數
	Peak   int    // 過程中最大的 frontier 大小
}

func (c Config) normalized() Config {
	if c.MaxRounds <= 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.Policy == nil {
		c.Policy = TopK{Width: DefaultBranchWidth}
	}
	if c.MaxPaths <= 0 {
		c.MaxPaths = DefaultMaxPaths
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

// Run 執行有限回合搜尋。
//
// 行為：
//   - N = 0：沒有任何路徑（回傳空 Outcome，不是錯誤；由呼叫端判斷）。
//   - 所有路徑都完成後提早結束，結果與跑滿回合相同。
//   - 下一回合的 frontier 會超過 MaxPaths 時回傳 errs.ErrBudget 種類的錯誤。
//   - ctx 在回合之間與平行展開時檢查；取消時回傳 ctx.Err()。
func Run(ctx context.Context, rel compat.Relation, cfg Config) (*Outcome, error) {
	cfg = cfg.normalized()
	if ctx == nil {
		ctx = context.Background()
	}
	out := &Outcome{}
	f := Seed(rel.Len())
	out.Peak = len(f)

	for round := 1; round <= cfg.MaxRounds; round++ {
		if f.Active() == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		need := f.NextSize(rel, cfg.Policy)
		if need > cfg.MaxPaths {
			return nil, errs.Codef(errs.CodeBudget, "frontier would grow to %d paths in round %d (max_paths=%d)", need, round, cfg.MaxPaths)
		}
		next, err := expand(ctx, rel, f, cfg.Policy, cfg.Workers, need)
		if err != nil {
			return nil, err
		}
		f = next
		out.Rounds = round
		out.Peak = max(out.Peak, len(f))
		if cfg.OnRound != nil {
			act := f.Active()
			cfg.OnRound(RoundStat{Round: round, Frontier: len(f), Active: act, Complete: len(f) - act})
		}
	}
	out.Paths = f.Completed()
	return out, nil
}

func expand(ctx context.Context, rel compat.Relation, f Frontier, policy Policy, workers int, need int) (Frontier, error) {
	chunks := min(workers, len(f)/minChunk)
	if chunks <= 1 {
		return expandInto(make(Frontier, 0, need), rel, f, policy), nil
	}
	// 切成連續區段，各自展開後依序串接，順序與單線程完全相同
	parts := make([]Frontier, chunks)
	size := (len(f) + chunks - 1) / chunks
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < chunks; i++ {
		lo := i * size
		hi := min(len(f), lo+size)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[i] = expandInto(make(Frontier, 0, (hi-lo)*2), rel, f[lo:hi], policy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	next := make(Frontier, 0, need)
	for _, p := range parts {
		next = append(next, p...)
	}
	return next, nil
}
