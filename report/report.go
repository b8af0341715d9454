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

// Package report 把一次分組建議整理成可輸出的報表：文字表格、Markdown 概覽、JSON / YAML 與 zstd 封存。
package report

import (
	"strings"
	"time"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/assign"
	"github.com/zintix-labs/flexcat/compat"
	"github.com/zintix-labs/flexcat/rank"
	"github.com/zintix-labs/flexcat/roster"
)

// 超過此人數就不輸出相容矩陣圖
const matrixViewLimit int = 60

// Member 組內一位選手
type Member struct {
	Name string  `json:"name" yaml:"name"`
	Club string  `json:"club" yaml:"club"`
	Kg   float64 `json:"kg"   yaml:"kg"`
}

// Group 一個體重組（公斤）
type Group struct {
	Label   string   `json:"label"    yaml:"label"`
	LowerKg float64  `json:"lower_kg" yaml:"lower_kg"`
	UpperKg float64  `json:"upper_kg" yaml:"upper_kg"`
	Members []Member `json:"members"  yaml:"members"`
}

// Report 一個組別的完整建議
type Report struct {
	Category    string           `json:"category"              yaml:"category"`
	Competitors int              `json:"competitors"           yaml:"competitors"`
	Rounds      int              `json:"rounds"                yaml:"rounds"`
	Peak        int              `json:"peak_frontier"         yaml:"peak_frontier"`
	Elapsed     time.Duration    `json:"elapsed_ns"            yaml:"elapsed_ns"`
	Found       int              `json:"candidates_found"      yaml:"candidates_found"`
	Chosen      rank.Candidate   `json:"chosen"                yaml:"chosen"`
	Candidates  []rank.Candidate `json:"candidates"            yaml:"candidates"`
	Groups      []Group          `json:"groups"                yaml:"groups"`
	Unweighed   []string         `json:"unweighed,omitempty"   yaml:"unweighed,omitempty"`
	Weights     []int            `json:"weights"               yaml:"weights"`
	Matrix      []string         `json:"matrix_view,omitempty" yaml:"matrix_view,omitempty"`
}

// Build 組出報表。
//   - top：輸出前幾名候選（<= 0 為全部）
//   - rel：可為 nil；不為 nil 且人數不多時附上相容矩陣圖
//   - unweighed：沒有體重、未參與分組的選手
func Build(category string, res *flexcat.Result, chosen rank.Candidate, groups []assign.Group[roster.Competitor], top int, rel compat.Relation, unweighed []roster.Competitor) *Report {
	r := &Report{
		Category: Title(category),
		Chosen:   chosen,
		Groups:   make([]Group, 0, len(groups)),
	}
	if res != nil {
		r.Candidates = append([]rank.Candidate(nil), rank.Top(res.Candidates, top)...)
		r.Competitors = res.N
		r.Rounds = res.Rounds
		r.Peak = res.Peak
		r.Elapsed = res.Elapsed
		r.Found = len(res.Candidates)
	}
	for _, g := range groups {
		v := Group{
			Label:   g.Label,
			LowerKg: roster.Kg(g.Lower),
			UpperKg: roster.Kg(g.Upper),
			Members: make([]Member, 0, len(g.Members)),
		}
		for _, m := range g.Members {
			v.Members = append(v.Members, Member{Name: m.Ref.Name(), Club: m.Ref.Club, Kg: roster.Kg(m.Weight)})
			r.Weights = append(r.Weights, m.Weight)
		}
		r.Groups = append(r.Groups, v)
	}
	for _, c := range unweighed {
		r.Unweighed = append(r.Unweighed, c.Name())
	}
	if rel != nil && rel.Len() <= matrixViewLimit {
		r.Matrix = MatrixView(rel, chosen.Sizes)
	}
	return r
}

// Title 去掉組別名稱中的 "?" 佔位字元，例如 "Masters ?" -> "Masters"
func Title(category string) string {
	return strings.TrimSpace(strings.ReplaceAll(category, "?", ""))
}

// PrefixFor 決定組別標籤前綴：組別名稱含 "?" 時以 "G" 取代（"M40 ?" -> "M40 G"），否則使用 fallback。
func PrefixFor(category string, fallback string) string {
	if strings.Contains(category, "?") {
		return strings.ReplaceAll(category, "?", "G")
	}
	return fallback
}

// MatrixView 以文字描繪相容關係與選定分組：
// '#' 為同組，'+' 為相容但不同組，'.' 為不相容。
func MatrixView(rel compat.Relation, sizes []int) []string {
	n := rel.Len()
	block := make([]int, n)
	pos := 0
	for gi, s := range sizes {
		for k := 0; k < s && pos < n; k++ {
			block[pos] = gi
			pos++
		}
	}
	for ; pos < n; pos++ {
		block[pos] = -1
	}
	out := make([]string, n)
	row := make([]byte, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case block[i] >= 0 && block[i] == block[j]:
				row[j] = '#'
			case rel.Compatible(i, j):
				row[j] = '+'
			default:
				row[j] = '.'
			}
		}
		out[i] = string(row)
	}
	return out
}
