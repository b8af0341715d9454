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

package search_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/zintix-labs/flexcat/compat"
	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/search"
)

func pathsString(ps []search.Path) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func TestTopKSizes(t *testing.T) {
	p := search.TopK{Width: 3}
	cases := []struct {
		reach int
		want  []int
	}{
		{0, nil},
		{1, []int{1}},
		{2, []int{2}},
		{3, []int{2, 3}},
		{4, []int{2, 3, 4}},
		{7, []int{5, 6, 7}},
	}
	for _, c := range cases {
		got := p.Sizes(c.reach)
		if !slices.Equal(got, c.want) {
			t.Fatalf("reach %d: got %v want %v", c.reach, got, c.want)
		}
		if p.Count(c.reach) != len(got) {
			t.Fatalf("reach %d: count %d != len %d", c.reach, p.Count(c.reach), len(got))
		}
	}
	// Width 零值使用預設值 3
	if got := (search.TopK{}).Sizes(10); !slices.Equal(got, []int{8, 9, 10}) {
		t.Fatalf("default width: %v", got)
	}
}

func TestExhaustiveSizes(t *testing.T) {
	if got := (search.Exhaustive{}).Sizes(4); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("got %v", got)
	}
	if (search.Exhaustive{}).Count(0) != 0 {
		t.Fatalf("reach 0 must give no sizes")
	}
}

func TestRunScenarioDiscoveryOrder(t *testing.T) {
	rel := compat.Build([]int{38000, 39000, 40000, 41000, 42000}, 0.1)
	out, err := search.Run(context.Background(), rel, search.Config{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"[2 2 1]", "[2 3]", "[3 2]", "[4 1]"}
	if got := pathsString(out.Paths); !slices.Equal(got, want) {
		t.Fatalf("paths %v want %v", got, want)
	}
	if out.Rounds != 3 {
		t.Fatalf("all paths finish in round 3, got %d", out.Rounds)
	}
}

func TestRunDisjointWeights(t *testing.T) {
	rel := compat.Build([]int{20000, 60000}, 0.1)
	out, err := search.Run(context.Background(), rel, search.Config{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := pathsString(out.Paths); !slices.Equal(got, []string{"[1 1]"}) {
		t.Fatalf("got %v", got)
	}
}

func TestRunEdgeSizes(t *testing.T) {
	out, err := search.Run(context.Background(), compat.Build(nil, 0.1), search.Config{})
	if err != nil || len(out.Paths) != 0 {
		t.Fatalf("N=0 should give no paths: %v %v", out, err)
	}
	out, err = search.Run(context.Background(), compat.Build([]int{50000}, 0.1), search.Config{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := pathsString(out.Paths); !slices.Equal(got, []string{"[1]"}) {
		t.Fatalf("N=1: got %v", got)
	}
}

func TestRunRoundLimit(t *testing.T) {
	rel := compat.Build([]int{38000, 39000, 40000, 41000, 42000}, 0.1)
	out, err := search.Run(context.Background(), rel, search.Config{MaxRounds: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Paths) != 0 {
		t.Fatalf("no run of length 5 exists, got %v", pathsString(out.Paths))
	}
	out, _ = search.Run(context.Background(), rel, search.Config{MaxRounds: 2})
	if got := pathsString(out.Paths); !slices.Equal(got, []string{"[2 3]", "[3 2]", "[4 1]"}) {
		t.Fatalf("two rounds: got %v", got)
	}
}

func TestRunBudget(t *testing.T) {
	ws := make([]int, 60)
	for i := range ws {
		ws[i] = 50000
	}
	rel := compat.Build(ws, 0.1)
	_, err := search.Run(context.Background(), rel, search.Config{Policy: search.Exhaustive{}, MaxPaths: 100})
	if !errors.Is(err, errs.ErrBudget) {
		t.Fatalf("expected budget error, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rel := compat.Build([]int{40000, 41000}, 0.1)
	if _, err := search.Run(ctx, rel, search.Config{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunOnRound(t *testing.T) {
	rel := compat.Build([]int{38000, 39000, 40000, 41000, 42000}, 0.1)
	var stats []search.RoundStat
	_, err := search.Run(context.Background(), rel, search.Config{OnRound: func(st search.RoundStat) { stats = append(stats, st) }})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(stats))
	}
	last := stats[len(stats)-1]
	if last.Active != 0 || last.Complete != 4 {
		t.Fatalf("last round: %+v", last)
	}
}

func TestCompletedPathsArePartitions(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 100; trial++ {
		n := 1 + r.IntN(40)
		ws := make([]int, n)
		for i := range ws {
			ws[i] = 30000 + r.IntN(30000)
		}
		slices.Sort(ws)
		rel := compat.Build(ws, 0.1)
		out, err := search.Run(context.Background(), rel, search.Config{})
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		for _, p := range out.Paths {
			if p.Sum() != n {
				t.Fatalf("trial %d: %v sums to %d, want %d", trial, p, p.Sum(), n)
			}
			start := 0
			for _, s := range p {
				if !compat.Admissible(rel, start, s) {
					t.Fatalf("trial %d: %v has inadmissible group at %d", trial, p, start)
				}
				start += s
			}
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	ws := make([]int, 120)
	for i := range ws {
		ws[i] = 40000 + r.IntN(8000)
	}
	slices.Sort(ws)
	rel := compat.Build(ws, 0.1)
	seq, err := search.Run(context.Background(), rel, search.Config{MaxRounds: 8})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := search.Run(context.Background(), rel, search.Config{MaxRounds: 8, Workers: 4})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !slices.Equal(pathsString(seq.Paths), pathsString(par.Paths)) {
		t.Fatalf("parallel expansion changed the discovery order")
	}
	if seq.Peak != par.Peak || seq.Rounds != par.Rounds {
		t.Fatalf("outcome stats differ: %+v vs %+v", seq, par)
	}
}

func TestExpandDoesNotMutatePreviousRound(t *testing.T) {
	rel := compat.Build([]int{40000, 40000, 40000, 40000}, 0.1)
	f0 := search.Seed(rel.Len())
	f1 := search.Expand(rel, f0, search.TopK{Width: 3})
	snap := make([]string, len(f1))
	for i, nd := range f1 {
		snap[i] = nd.Path.String()
	}
	_ = search.Expand(rel, f1, search.TopK{Width: 3})
	for i, nd := range f1 {
		if nd.Path.String() != snap[i] {
			t.Fatalf("round 1 path %d mutated: %s -> %s", i, snap[i], nd.Path)
		}
	}
}
