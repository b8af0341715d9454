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

package compat

// DefaultDenseLimit 超過此人數改用 Interval，避免 O(N²) 記憶體。
const DefaultDenseLimit int = 1000

// Interval 以「每列相容區間」表示相容關係，記憶體 O(N)。
//
// 排序後每一列的 true 必定是一段連續區間 [lo[i], hi[i]]（含 i 本身），
// 因此只需記錄兩端即可回答 Compatible 與 Reach。
type Interval struct {
	weights []int
	lo      []int
	hi      []int
	tol     float64
}

// BuildInterval 以雙指標掃描建立區間表示。weights 必須已排序。
func BuildInterval(weights []int, tolerance float64) *Interval {
	n := len(weights)
	iv := &Interval{
		weights: append([]int(nil), weights...),
		lo:      make([]int, n),
		hi:      make([]int, n),
		tol:     tolerance,
	}
	hiPtr := 0
	loPtr := 0
	for i := 0; i < n; i++ {
		// hi[i]：最大的 j >= i 使 compat(i, j)，隨 i 單調不減
		if hiPtr < i {
			hiPtr = i
		}
		for hiPtr+1 < n && iv.mutual(i, hiPtr+1) {
			hiPtr++
		}
		iv.hi[i] = hiPtr

		// lo[i]：最小的 j <= i 使 compat(i, j)，隨 i 單調不減
		for loPtr < i && !iv.mutual(i, loPtr) {
			loPtr++
		}
		iv.lo[i] = loPtr
	}
	return iv
}

func (iv *Interval) accepts(i, j int) bool {
	wi := float64(iv.weights[i])
	wj := float64(iv.weights[j])
	return ((1.0-iv.tol)*wi <= wj) && (wj <= (1.0+iv.tol)*wi)
}

func (iv *Interval) mutual(i, j int) bool {
	return iv.accepts(i, j) && iv.accepts(j, i)
}

func (iv *Interval) Len() int {
	if iv == nil {
		return 0
	}
	return len(iv.weights)
}

func (iv *Interval) Compatible(i, j int) bool {
	if iv == nil || i < 0 || j < 0 || i >= len(iv.weights) || j >= len(iv.weights) {
		return false
	}
	return iv.lo[i] <= j && j <= iv.hi[i]
}

func (iv *Interval) Reach(p int) int {
	if iv == nil || p < 0 || p >= len(iv.weights) {
		return 0
	}
	return iv.hi[p] - p + 1
}

// Bounds 回傳第 i 列的相容區間 [lo, hi]
func (iv *Interval) Bounds(i int) (int, int) {
	return iv.lo[i], iv.hi[i]
}

// Auto 依人數選擇實作：N <= denseLimit 用稠密矩陣，其餘用區間表示。denseLimit <= 0 時使用預設值。
func Auto(weights []int, tolerance float64, denseLimit int) Relation {
	if denseLimit <= 0 {
		denseLimit = DefaultDenseLimit
	}
	if len(weights) <= denseLimit {
		return Build(weights, tolerance)
	}
	return BuildInterval(weights, tolerance)
}
