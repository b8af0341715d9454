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

package spec

import (
	"fmt"

	"github.com/zintix-labs/flexcat/compat"
	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/rank"
	"github.com/zintix-labs/flexcat/search"
)

// SearchSetting 包含一次分組建議所需的所有參數。零值欄位在 Normalize 後會填入預設值。
type SearchSetting struct {
	MaxRounds   int     `yaml:"max_rounds"    json:"max_rounds"`
	BranchWidth int     `yaml:"branch_width"  json:"branch_width"`
	Tolerance   float64 `yaml:"tolerance"     json:"tolerance"`
	TieBreak    string  `yaml:"tie_break"     json:"tie_break"`
	CheckSorted bool    `yaml:"check_sorted"  json:"check_sorted"`
	MaxPaths    int     `yaml:"max_paths"     json:"max_paths"`
	Workers     int     `yaml:"workers"       json:"workers"`
	DenseLimit  int     `yaml:"dense_limit"   json:"dense_limit"`
	Exhaustive  bool    `yaml:"exhaustive"    json:"exhaustive"`
	LabelPrefix string  `yaml:"label_prefix"  json:"label_prefix"`
}

// Default 回傳預設設定（max_rounds=12, branch_width=3, tolerance=0.10）。
func Default() *SearchSetting {
	s := &SearchSetting{}
	s.Normalize()
	return s
}

// Normalize 把零值欄位補成預設值。
func (s *SearchSetting) Normalize() {
	if s.MaxRounds == 0 {
		s.MaxRounds = search.DefaultMaxRounds
	}
	if s.BranchWidth == 0 {
		s.BranchWidth = search.DefaultBranchWidth
	}
	if s.Tolerance == 0 {
		s.Tolerance = compat.DefaultTolerance
	}
	if s.TieBreak == "" {
		s.TieBreak = rank.Discovery.String()
	}
	if s.MaxPaths == 0 {
		s.MaxPaths = search.DefaultMaxPaths
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
	if s.DenseLimit == 0 {
		s.DenseLimit = compat.DefaultDenseLimit
	}
	if s.LabelPrefix == "" {
		s.LabelPrefix = "G"
	}
}

// Validate 執行基本檢查；錯誤種類為 errs.CodeConfig。
func (s *SearchSetting) Validate() error {
	if s.MaxRounds < 1 {
		return errs.Codef(errs.CodeConfig, "max_rounds must be >= 1: %d", s.MaxRounds)
	}
	if s.BranchWidth < 1 {
		return errs.Codef(errs.CodeConfig, "branch_width must be >= 1: %d", s.BranchWidth)
	}
	if !(s.Tolerance > 0 && s.Tolerance < 1) {
		return errs.Codef(errs.CodeConfig, "tolerance must be in (0, 1): %s", fmt.Sprint(s.Tolerance))
	}
	if s.MaxPaths < 1 {
		return errs.Codef(errs.CodeConfig, "max_paths must be >= 1: %d", s.MaxPaths)
	}
	if s.Workers < 1 {
		return errs.Codef(errs.CodeConfig, "workers must be >= 1: %d", s.Workers)
	}
	if s.DenseLimit < 1 {
		return errs.Codef(errs.CodeConfig, "dense_limit must be >= 1: %d", s.DenseLimit)
	}
	if _, err := rank.ParseTieBreak(s.TieBreak); err != nil {
		return err
	}
	return nil
}

// Policy 依設定產生剪枝策略
func (s *SearchSetting) Policy() search.Policy {
	if s.Exhaustive {
		return search.Exhaustive{}
	}
	return search.TopK{Width: s.BranchWidth}
}

// Tie 回傳解析後的 TieBreak（未知名稱退回 Discovery，Validate 會先擋下）
func (s *SearchSetting) Tie() rank.TieBreak {
	tb, _ := rank.ParseTieBreak(s.TieBreak)
	return tb
}

// Clone 回傳複本
func (s *SearchSetting) Clone() *SearchSetting {
	c := *s
	return &c
}
