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

import (
	"strconv"
	"strings"

	"github.com/zintix-labs/flexcat/compat"
)

// Path 為一種分組方式：依序列出每一組的人數。
type Path []int

// Sum 回傳總人數
func (p Path) Sum() int {
	s := 0
	for _, v := range p {
		s += v
	}
	return s
}

// Clone 回傳複本
func (p Path) Clone() Path {
	return append(Path(nil), p...)
}

// String 例如 "[3 2 2]"
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	return b.String()
}

// Node 為 frontier 中的一條路徑與其狀態。
type Node struct {
	Path Path
	Sum  int
	Done bool // 總和等於 N
}

// Frontier 為單一回合的工作集合。
//
// 每一回合都產生一個全新的 Frontier；上一回合的 Path 不會被修改，
// 因此不同路徑的展開互不相依，可以平行處理。
type Frontier []Node

// Seed 回傳初始 frontier：N > 0 時為一條空路徑；N = 0 時為空集合。
func Seed(n int) Frontier {
	if n <= 0 {
		return Frontier{}
	}
	return Frontier{{Path: Path{}, Sum: 0, Done: false}}
}

// Active 回傳尚未完成的路徑數
func (f Frontier) Active() int {
	c := 0
	for _, nd := range f {
		if !nd.Done {
			c++
		}
	}
	return c
}

// Completed 依發現順序回傳已完成的路徑
func (f Frontier) Completed() []Path {
	out := make([]Path, 0, len(f)-f.Active())
	for _, nd := range f {
		if nd.Done {
			out = append(out, nd.Path)
		}
	}
	return out
}

// NextSize 回傳展開後的 frontier 大小（不實際展開）。
func (f Frontier) NextSize(rel compat.Relation, policy Policy) int {
	total := 0
	for _, nd := range f {
		if nd.Done {
			total++
			continue
		}
		total += policy.Count(rel.Reach(nd.Sum))
	}
	return total
}

// Expand 對每條進行中的路徑追加一組，已完成路徑原樣保留；回傳新的 Frontier。
//
// 子路徑依 Policy 給出的大小順序排列，整體順序即發現順序。
func Expand(rel compat.Relation, f Frontier, policy Policy) Frontier {
	return expandInto(make(Frontier, 0, len(f)*2), rel, f, policy)
}

func expandInto(dst Frontier, rel compat.Relation, f Frontier, policy Policy) Frontier {
	n := rel.Len()
	for _, nd := range f {
		if nd.Done {
			dst = append(dst, nd)
			continue
		}
		if nd.Sum >= n {
			continue
		}
		for _, s := range policy.Sizes(rel.Reach(nd.Sum)) {
			child := make(Path, len(nd.Path)+1)
			copy(child, nd.Path)
			child[len(nd.Path)] = s
			sum := nd.Sum + s
			dst = append(dst, Node{Path: child, Sum: sum, Done: sum == n})
		}
	}
	return dst
}
