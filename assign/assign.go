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

// Package assign 把選定的分組接回選手資料：依組別大小切出連續區段，回報每組體重範圍與成員。
package assign

import (
	"fmt"

	"github.com/zintix-labs/flexcat/errs"
)

// Entry 是核心看到的一筆選手：參照 + 體重（公克）。T 由呼叫端決定。
type Entry[T any] struct {
	Ref    T   `json:"ref" yaml:"ref"`
	Weight int `json:"weight" yaml:"weight"`
}

// Group 一個體重組
type Group[T any] struct {
	Index   int        `json:"index" yaml:"index"` // 從 0 開始
	Label   string     `json:"label" yaml:"label"`
	Lower   int        `json:"lower" yaml:"lower"` // 含
	Upper   int        `json:"upper" yaml:"upper"` // 含
	Members []Entry[T] `json:"members" yaml:"members"`
}

// Weights 取出體重序列，給 compat 使用。
func Weights[T any](entries []Entry[T]) []int {
	ws := make([]int, len(entries))
	for i, e := range entries {
		ws[i] = e.Weight
	}
	return ws
}

// IsSorted 檢查體重是否由小到大（允許相同）。
func IsSorted[T any](entries []Entry[T]) bool {
	for i := 1; i < len(entries); i++ {
		if entries[i].Weight < entries[i-1].Weight {
			return false
		}
	}
	return true
}

// Assign 依 sizes 依序切分已排序的 entries。
//
// sizes 的總和必須等於 len(entries)，且每組大小 >= 1。
// 回傳的 Members 與 entries 共用底層陣列（唯讀）。
func Assign[T any](sizes []int, entries []Entry[T], labelPrefix string) ([]Group[T], error) {
	total := 0
	for i, s := range sizes {
		if s < 1 {
			return nil, errs.Warnf("group %d has invalid size %d", i, s)
		}
		total += s
	}
	if total != len(entries) {
		return nil, errs.Warnf("group sizes sum to %d but roster has %d entries", total, len(entries))
	}
	groups := make([]Group[T], 0, len(sizes))
	pos := 0
	for i, s := range sizes {
		block := entries[pos : pos+s : pos+s]
		lo, hi := block[0].Weight, block[0].Weight
		for _, e := range block[1:] {
			lo = min(lo, e.Weight)
			hi = max(hi, e.Weight)
		}
		groups = append(groups, Group[T]{
			Index:   i,
			Label:   Label(labelPrefix, i),
			Lower:   lo,
			Upper:   hi,
			Members: block,
		})
		pos += s
	}
	return groups, nil
}

// Label 例如 Label("G", 0) == "G01"
func Label(prefix string, index int) string {
	return fmt.Sprintf("%s%02d", prefix, index+1)
}
