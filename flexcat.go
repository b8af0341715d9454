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

// Package flexcat 提供彈性體重分組的「組裝入口（assembler）」。
//
// Partitioner 把四個核心組件串成一次呼叫：
//  1. compat：由已排序的體重建立雙向相容關係（預設容許差距 10%）。
//  2. search：有限回合、帶剪枝的連續分組列舉。
//  3. rank：依組別大小的標準差排序候選。
//  4. assign：把選定的候選接回選手資料與體重範圍。
//
// 設計重點：
//   - 核心不排序、不做 I/O；名單讀取與排序在 roster 包，輸出在 report 包。
//   - 每次呼叫只使用自己的狀態，同一個 Partitioner 可被多個 goroutine 共用。
//   - 搜尋是啟發式的：回合上限與剪枝策略會讓部分可行分組永遠不被找到。
//
// 典型使用：
//
//	p, _ := flexcat.New(spec.Default(), nil)
//	res, err := p.Suggest(ctx, weights)
//	best, _ := res.Best()
//	groups, _ := flexcat.Materialize(p, best, entries)
package flexcat

import (
	"context"
	"log/slog"
	"time"

	"github.com/zintix-labs/flexcat/assign"
	"github.com/zintix-labs/flexcat/compat"
	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/rank"
	"github.com/zintix-labs/flexcat/search"
	"github.com/zintix-labs/flexcat/server/logger"
	"github.com/zintix-labs/flexcat/spec"
)

// Partitioner 持有一份已驗證的 SearchSetting 與 logger。建立後唯讀。
type Partitioner struct {
	set *spec.SearchSetting
	log *slog.Logger
}

// Result 一次建議的結果
type Result struct {
	N          int              `json:"competitors"     yaml:"competitors"`
	Candidates []rank.Candidate `json:"candidates"      yaml:"candidates"`
	Rounds     int              `json:"rounds"          yaml:"rounds"`
	Peak       int              `json:"peak_frontier"   yaml:"peak_frontier"`
	Dense      bool             `json:"dense_matrix"    yaml:"dense_matrix"`
	Elapsed    time.Duration    `json:"elapsed_ns"      yaml:"elapsed_ns"`
}

// Best 回傳排名第一的候選
func (r *Result) Best() (rank.Candidate, error) {
	if r == nil {
		return rank.Best(nil)
	}
	return rank.Best(r.Candidates)
}

// Pick 回傳第 i 名（從 0 開始）
func (r *Result) Pick(i int) (rank.Candidate, error) {
	if r == nil || len(r.Candidates) == 0 {
		return rank.Best(nil)
	}
	if i < 0 || i >= len(r.Candidates) {
		return rank.Candidate{}, errs.Warnf("pick %d out of range [0, %d)", i, len(r.Candidates))
	}
	return r.Candidates[i], nil
}

// New 建立 Partitioner。set 為 nil 時使用預設值；log 為 nil 時不輸出任何 log。
//
// set 會被複製並補上預設值，呼叫端之後修改原物件不影響 Partitioner。
func New(set *spec.SearchSetting, log *slog.Logger) (*Partitioner, error) {
	if set == nil {
		set = spec.Default()
	}
	s := set.Clone()
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, errs.Wrap(err, "invalid search setting")
	}
	if log == nil {
		log = logger.NewDefaultLogger(logger.ModeSilence)
	}
	return &Partitioner{set: s, log: log}, nil
}

// Setting 回傳設定的複本
func (p *Partitioner) Setting() *spec.SearchSetting {
	return p.set.Clone()
}

// Relation 依設定建立相容關係（小名單用矩陣，大名單用區間表示）。
func (p *Partitioner) Relation(weights []int) compat.Relation {
	return compat.Auto(weights, p.set.Tolerance, p.set.DenseLimit)
}

// Suggest 對已排序的體重（公克）執行完整流程並回傳排序後的候選。
//
// 錯誤：
//   - N = 0：errs.ErrEmptyInput
//   - 任一體重為負：errs.ErrNegative
//   - check_sorted 開啟且輸入未排序：errs.ErrUnsorted
//   - 沒有任何完成的分組：errs.ErrInfeasible
//   - frontier 超過 max_paths：errs.ErrBudget
//   - ctx 取消或逾時：ctx.Err()
func (p *Partitioner) Suggest(ctx context.Context, weights []int) (*Result, error) {
	if len(weights) == 0 {
		return nil, errs.Wrap(errs.ErrEmptyInput, "suggest")
	}
	for i, w := range weights {
		if w < 0 {
			return nil, errs.Wrap(errs.Codef(errs.CodeNegativeWeight, "weight[%d] = %d", i, w), "suggest")
		}
	}
	if p.set.CheckSorted && !sorted(weights) {
		return nil, errs.Wrap(errs.ErrUnsorted, "suggest")
	}
	start := time.Now()
	rel := p.Relation(weights)
	_, dense := rel.(*compat.Matrix)

	cfg := search.Config{
		MaxRounds: p.set.MaxRounds,
		Policy:    p.set.Policy(),
		MaxPaths:  p.set.MaxPaths,
		Workers:   p.set.Workers,
		OnRound: func(st search.RoundStat) {
			p.log.Debug("search.round",
				slog.Int("round", st.Round),
				slog.Int("frontier", st.Frontier),
				slog.Int("active", st.Active),
				slog.Int("complete", st.Complete),
			)
		},
	}
	out, err := search.Run(ctx, rel, cfg)
	if err != nil {
		p.log.Warn("search.failed", slog.Int("n", len(weights)), slog.String("err", err.Error()))
		return nil, err
	}

	res := &Result{
		N:          len(weights),
		Candidates: rank.Rank(out.Paths, p.set.Tie()),
		Rounds:     out.Rounds,
		Peak:       out.Peak,
		Dense:      dense,
		Elapsed:    time.Since(start),
	}
	if len(res.Candidates) == 0 {
		p.log.Info("suggest.infeasible",
			slog.Int("n", res.N),
			slog.Int("rounds", res.Rounds),
		)
		return nil, errs.WrapWithExtra(errs.ErrInfeasible, "no complete grouping found",
			"raise max_rounds, widen branch_width or enable exhaustive")
	}
	best := res.Candidates[0]
	p.log.Info("suggest.done",
		slog.Int("n", res.N),
		slog.Int("candidates", len(res.Candidates)),
		slog.Int("rounds", res.Rounds),
		slog.Int("peak", res.Peak),
		slog.Any("best", best.Sizes),
		slog.Float64("stddev", best.StdDev),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// SuggestEntries 同 Suggest，輸入為帶參照的選手序列。
func SuggestEntries[T any](ctx context.Context, p *Partitioner, entries []assign.Entry[T]) (*Result, error) {
	return p.Suggest(ctx, assign.Weights(entries))
}

// Materialize 把候選切回選手資料，組別標籤使用設定的 label_prefix。
func Materialize[T any](p *Partitioner, c rank.Candidate, entries []assign.Entry[T]) ([]assign.Group[T], error) {
	return assign.Assign(c.Sizes, entries, p.set.LabelPrefix)
}

func sorted(ws []int) bool {
	for i := 1; i < len(ws); i++ {
		if ws[i] < ws[i-1] {
			return false
		}
	}
	return true
}
