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

// Package rank 為已完成的分組計算指標並依「組別大小是否平均」排序。
package rank

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/search"
)

const epsilon float64 = 1e-12

// Candidate 一個完整、可行的分組及其摘要指標
type Candidate struct {
	Sizes      []int   `json:"group_sizes" yaml:"group_sizes"`
	Groups     int     `json:"group_count" yaml:"group_count"`
	Singletons int     `json:"singleton_count" yaml:"singleton_count"`
	StdDev     float64 `json:"size_stddev" yaml:"size_stddev"`
	Mean       float64 `json:"size_mean" yaml:"size_mean"`
	Order      int     `json:"discovery" yaml:"discovery"` // 搜尋時的發現順序
}

// Score 計算單一路徑的指標；StdDev 為母體標準差。
func Score(p search.Path, order int) Candidate {
	sizes := make([]float64, len(p))
	ones := 0
	for i, s := range p {
		sizes[i] = float64(s)
		if s == 1 {
			ones++
		}
	}
	c := Candidate{
		Sizes:      append([]int(nil), p...),
		Groups:     len(p),
		Singletons: ones,
		Order:      order,
	}
	if len(p) > 0 {
		c.Mean, c.StdDev = stat.PopMeanStdDev(sizes, nil)
		if math.IsNaN(c.StdDev) {
			c.StdDev = 0
		}
	}
	return c
}

// TieBreak 決定標準差相同時的次要排序鍵。
//
// 所有策略最後都會以發現順序收尾，所以結果永遠是確定的。
type TieBreak uint8

const (
	Discovery       TieBreak = iota // 只看發現順序（穩定排序）
	FewerSingletons                 // 單人組較少者優先
	MoreGroups                      // 組數較多者優先
	FewerGroups                     // 組數較少者優先
	Lexicographic                   // 組別大小序列字典序較小者優先
)

var tieBreakNames = map[TieBreak]string{
	Discovery:       "discovery",
	FewerSingletons: "fewer_singletons",
	MoreGroups:      "more_groups",
	FewerGroups:     "fewer_groups",
	Lexicographic:   "lexicographic",
}

func (t TieBreak) String() string {
	if s, ok := tieBreakNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTieBreak 由名稱取得 TieBreak；空字串視為 Discovery。
func ParseTieBreak(name string) (TieBreak, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Discovery, nil
	}
	for t, s := range tieBreakNames {
		if s == name {
			return t, nil
		}
	}
	return Discovery, errs.Codef(errs.CodeConfig, "unknown tie break: %q", name)
}

// Rank 為每條路徑評分，依標準差由小到大排序。
//
// 沒有任何路徑時回傳空切片；呼叫端必須把它視為「不可行」，而不是「零組也沒關係」。
func Rank(paths []search.Path, tb TieBreak) []Candidate {
	cs := make([]Candidate, len(paths))
	for i, p := range paths {
		cs[i] = Score(p, i)
	}
	Sort(cs, tb)
	return cs
}

// Sort 以 (StdDev, TieBreak, Order) 排序 Candidate。
func Sort(cs []Candidate, tb TieBreak) {
	sort.SliceStable(cs, func(i, j int) bool {
		return less(&cs[i], &cs[j], tb)
	})
}

func less(a, b *Candidate, tb TieBreak) bool {
	if d := a.StdDev - b.StdDev; math.Abs(d) > epsilon {
		return d < 0
	}
	switch tb {
	case FewerSingletons:
		if a.Singletons != b.Singletons {
			return a.Singletons < b.Singletons
		}
	case MoreGroups:
		if a.Groups != b.Groups {
			return a.Groups > b.Groups
		}
	case FewerGroups:
		if a.Groups != b.Groups {
			return a.Groups < b.Groups
		}
	case Lexicographic:
		if c := compareSizes(a.Sizes, b.Sizes); c != 0 {
			return c < 0
		}
	}
	return a.Order < b.Order
}

func compareSizes(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// Best 回傳排序後第一名；沒有候選時回傳 errs.ErrInfeasible 種類的錯誤。
func Best(cs []Candidate) (Candidate, error) {
	if len(cs) == 0 {
		return Candidate{}, errs.Wrap(errs.ErrInfeasible, "no candidate to select")
	}
	return cs[0], nil
}

// Top 回傳前 n 名（n <= 0 回傳全部）
func Top(cs []Candidate, n int) []Candidate {
	if n <= 0 || n >= len(cs) {
		return cs
	}
	return cs[:n]
}
