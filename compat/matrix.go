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

// Package compat 建立「誰可以和誰比賽」的相容關係。
//
// 規則：選手 i 接受對手 j，若 j 的體重落在 i 的 [(1-tol)·w_i, (1+tol)·w_i]。
// 只有雙方都接受對方（互相相容）時，兩人才可以被分在同一組。
//
// 合約：
//   - 輸入的體重必須已由小到大排序（呼叫端責任），本包從不排序。
//   - 排序後相容關係沿著體重軸是「向下封閉」的，因此 Reach(p) 可以用一列的 true 數量表示，
//     搜尋引擎依賴此性質（見 IsMonotone）。
package compat

// DefaultTolerance 預設 ±10% 體重容許範圍
const DefaultTolerance float64 = 0.10

// Relation 是搜尋引擎所需的最小相容關係介面。
//
// Dense 與 Interval 兩種實作對同一份排序體重必須給出相同的答案。
type Relation interface {
	// Len 回傳選手數 N
	Len() int
	// Compatible 回傳 i 與 j 是否互相相容
	Compatible(i, j int) bool
	// Reach 回傳 M(p)：從 p 開始（含 p）最多可以連續放進同一組的人數
	Reach(p int) int
}

// Matrix 為 N×N 的稠密布林相容矩陣。建立後不可變。
type Matrix struct {
	n     int
	cells []bool // row-major
	reach []int
}

// Build 由排序後、非負的體重（公克）建立稠密相容矩陣。負體重會破壞自反性，由 flexcat.Suggest 先行擋下。
//
// N = 0 時回傳空矩陣；呼叫端必須在進入搜尋前自行處理。
func Build(weights []int, tolerance float64) *Matrix {
	n := len(weights)
	m := &Matrix{
		n:     n,
		cells: make([]bool, n*n),
		reach: make([]int, n),
	}
	lo := 1.0 - tolerance
	hi := 1.0 + tolerance

	// raw[i][j]：i 是否接受 j
	raw := make([]bool, n*n)
	for i, wi := range weights {
		low := lo * float64(wi)
		high := hi * float64(wi)
		row := raw[i*n : (i+1)*n]
		for j, wj := range weights {
			w := float64(wj)
			row[j] = (low <= w) && (w <= high)
		}
	}
	// compat[i][j] = raw[i][j] && raw[j][i]
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.cells[i*n+j] = raw[i*n+j] && raw[j*n+i]
		}
	}
	for p := 0; p < n; p++ {
		cnt := 0
		for _, ok := range m.cells[p*n+p : (p+1)*n] {
			if ok {
				cnt++
			}
		}
		m.reach[p] = cnt
	}
	return m
}

func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At 回傳 compat[i][j]；越界回傳 false。
func (m *Matrix) At(i, j int) bool {
	if m == nil || i < 0 || j < 0 || i >= m.n || j >= m.n {
		return false
	}
	return m.cells[i*m.n+j]
}

func (m *Matrix) Compatible(i, j int) bool {
	return m.At(i, j)
}

// Reach 回傳相容矩陣第 p 列從第 p 欄開始的 true 數量。
func (m *Matrix) Reach(p int) int {
	if m == nil || p < 0 || p >= m.n {
		return 0
	}
	return m.reach[p]
}

// Row 回傳第 i 列的複本
func (m *Matrix) Row(i int) []bool {
	if m == nil || i < 0 || i >= m.n {
		return nil
	}
	return append([]bool(nil), m.cells[i*m.n:(i+1)*m.n]...)
}

// Rows 回傳整個矩陣的複本（[][]bool），給報表與 API 使用。
func (m *Matrix) Rows() [][]bool {
	out := make([][]bool, m.Len())
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// IsSymmetric 檢查 compat[i][j] == compat[j][i]
func (m *Matrix) IsSymmetric() bool {
	for i := 0; i < m.Len(); i++ {
		for j := i + 1; j < m.n; j++ {
			if m.cells[i*m.n+j] != m.cells[j*m.n+i] {
				return false
			}
		}
	}
	return true
}

// IsReflexive 檢查對角線全為 true
func (m *Matrix) IsReflexive() bool {
	for i := 0; i < m.Len(); i++ {
		if !m.cells[i*m.n+i] {
			return false
		}
	}
	return true
}

// IsMonotone 檢查向下封閉性：若 compat[p][q]（q >= p）成立，則 p <= k <= q 的 compat[p][k] 也成立。
//
// 這是 Reach 以「計數」代替「連續長度」的前提；回傳 false 代表輸入未排序或規則被改動。
func (m *Matrix) IsMonotone() bool {
	for p := 0; p < m.Len(); p++ {
		row := m.cells[p*m.n : (p+1)*m.n]
		ended := false
		for q := p; q < m.n; q++ {
			if !row[q] {
				ended = true
				continue
			}
			if ended {
				return false
			}
		}
	}
	return true
}

// Admissible 以逐對檢查的方式確認 [start, start+size) 內所有人兩兩相容。
//
// 與 Reach 無關，用於獨立驗證搜尋結果。
func Admissible(r Relation, start, size int) bool {
	if size < 1 || start < 0 || start+size > r.Len() {
		return false
	}
	end := start + size
	for i := start; i < end; i++ {
		for j := i + 1; j < end; j++ {
			if !r.Compatible(i, j) {
				return false
			}
		}
	}
	return true
}
