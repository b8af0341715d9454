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

package flexcat

import (
	"context"
	"io"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"

	"github.com/zintix-labs/flexcat/assign"
)

// Category 一個待分組的組別（例如 "Masters M40"）與其已排序的選手。
// Prefix 為空時組別標籤使用設定的 label_prefix。
type Category[T any] struct {
	Name    string
	Prefix  string
	Entries []assign.Entry[T]
}

// Outcome 單一組別的結果；Err 不為 nil 時 Result 與 Groups 為空。
type Outcome[T any] struct {
	Name   string
	Result *Result
	Groups []assign.Group[T]
	Err    error
}

// SuggestBatch 平行處理多個組別，回傳順序與 cats 相同。
//
// 單一組別的錯誤只記在該組的 Outcome.Err，不影響其他組別，也不重試。
// workers <= 0 時使用設定中的 workers。ctx 取消後尚未開始的組別會拿到 ctx.Err()。
func SuggestBatch[T any](ctx context.Context, p *Partitioner, cats []Category[T], workers int, showpb bool) []Outcome[T] {
	if workers <= 0 {
		workers = p.set.Workers
	}
	out := make([]Outcome[T], len(cats))
	bar := pb.StartNew(len(cats))
	if !showpb {
		bar.SetWriter(io.Discard)
	}

	g := new(errgroup.Group)
	g.SetLimit(max(1, workers))
	for i, c := range cats {
		g.Go(func() error {
			defer bar.Increment()
			out[i] = suggestOne(ctx, p, c)
			return nil
		})
	}
	_ = g.Wait()
	bar.Finish()

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	p.log.Info("suggest.batch", slog.Int("categories", len(cats)), slog.Int("failed", failed))
	return out
}

func suggestOne[T any](ctx context.Context, p *Partitioner, c Category[T]) Outcome[T] {
	o := Outcome[T]{Name: c.Name}
	if err := ctx.Err(); err != nil {
		o.Err = err
		return o
	}
	res, err := SuggestEntries(ctx, p, c.Entries)
	if err != nil {
		o.Err = err
		return o
	}
	best, err := res.Best()
	if err != nil {
		o.Err = err
		return o
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = p.set.LabelPrefix
	}
	groups, err := assign.Assign(best.Sizes, c.Entries, prefix)
	if err != nil {
		o.Err = err
		return o
	}
	o.Result = res
	o.Groups = groups
	return o
}
