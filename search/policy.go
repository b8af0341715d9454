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

package search

// DefaultBranchWidth 預設每一步最多保留的組別大小數
const DefaultBranchWidth int = 3

// Policy 決定「下一組可以是多大」中要保留哪些大小。
//
// reach 為 M(T)，即目前位置最多可放進同一組的人數（reach >= 1）。
// 回傳的大小必須落在 [1, reach]，且由小到大排列；排列順序就是子路徑的發現順序。
//
// 剪枝是刻意的取捨：被剪掉的分支上的可行分組永遠不會被找到。
type Policy interface {
	Sizes(reach int) []int
	// Count 必須等於 len(Sizes(reach))，用於預先估算 frontier 大小。
	Count(reach int) int
}

// TopK 為預設剪枝策略：
//   - 可選大小超過 Width 個時，只保留最大的 Width 個。
//   - 否則若可選大小超過 1 個，丟掉大小 1（只有別無選擇時才允許單人組）。
type TopK struct {
	Width int
}

func (t TopK) width() int {
	if t.Width < 1 {
		return DefaultBranchWidth
	}
	return t.Width
}

func (t TopK) Sizes(reach int) []int {
	lo, hi := t.bounds(reach)
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for s := lo; s <= hi; s++ {
		out = append(out, s)
	}
	return out
}

func (t TopK) Count(reach int) int {
	lo, hi := t.bounds(reach)
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

func (t TopK) bounds(reach int) (int, int) {
	w := t.width()
	switch {
	case reach < 1:
		return 1, 0
	case reach > w:
		return reach - w + 1, reach
	case reach > 1:
		return 2, reach
	default:
		return 1, 1
	}
}

// Exhaustive 不剪枝：保留 1..reach 全部大小。
//
// 分支數隨人數指數成長，只適合小名單或驗證用途。
type Exhaustive struct{}

func (Exhaustive) Sizes(reach int) []int {
	if reach < 1 {
		return nil
	}
	out := make([]int, reach)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func (Exhaustive) Count(reach int) int {
	return max(0, reach)
}
