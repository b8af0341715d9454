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

// Package roster 是名單的檔案邊界：讀取選手匯出檔（JSON / YAML）、依組別過濾、依體重排序。
//
// 核心（compat / search / rank）從不排序；排序是呼叫端的責任，本包提供這個責任的實作。
package roster

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/flexcat/assign"
	"github.com/zintix-labs/flexcat/errs"
	"gopkg.in/yaml.v3"
)

// Competitor 一位選手。欄位名稱沿用賽事軟體的選手匯出格式，Weight 單位為公克。
type Competitor struct {
	Index     int    `json:"ix"        yaml:"ix"`
	Last      string `json:"last"      yaml:"last"`
	First     string `json:"first"     yaml:"first"`
	Club      string `json:"club"      yaml:"club"`
	Category  string `json:"category"  yaml:"category"`
	Country   string `json:"country"   yaml:"country"`
	ID        string `json:"id"        yaml:"id"`
	Birthyear int    `json:"birthyear" yaml:"birthyear"`
	Belt      int    `json:"belt"      yaml:"belt"`
	Gender    int    `json:"gender"    yaml:"gender"`
	Weight    int    `json:"weight"    yaml:"weight"`
}

// Name 例如 "Müller, Anna"
func (c Competitor) Name() string {
	switch {
	case c.First == "":
		return c.Last
	case c.Last == "":
		return c.First
	default:
		return c.Last + ", " + c.First
	}
}

// Kg 公克轉公斤
func Kg(grams int) float64 {
	return float64(grams) / 1000.0
}

// LoadJSON 解析選手陣列。未知欄位（例如 seeding、flags）會被忽略。
func LoadJSON(raw []byte) ([]Competitor, error) {
	var cs []Competitor
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&cs); err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "can not unmarshall roster json")
	}
	return cs, nil
}

// LoadYAML 解析選手陣列
func LoadYAML(raw []byte) ([]Competitor, error) {
	var cs []Competitor
	if err := yaml.Unmarshal(raw, &cs); err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "failed to unmarshall roster yaml")
	}
	return cs, nil
}

// LoadFS 依副檔名從 fs.FS 讀取名單
func LoadFS(src fs.FS, name string) ([]Competitor, error) {
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, errs.Wrap(err, "read roster failed: "+name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return LoadYAML(raw)
	case ".json":
		return LoadJSON(raw)
	default:
		return nil, errs.Warnf("unsupported roster format: %q", name)
	}
}

// FilterCategory 保留組別名稱相符者（忽略大小寫與前後空白）；category 為空時回傳全部。
func FilterCategory(cs []Competitor, category string) []Competitor {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return append([]Competitor(nil), cs...)
	}
	out := make([]Competitor, 0, len(cs))
	for _, c := range cs {
		if strings.ToLower(strings.TrimSpace(c.Category)) == key {
			out = append(out, c)
		}
	}
	return out
}

// Categories 回傳不重複的組別名稱（排序後）
func Categories(cs []Competitor) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 8)
	for _, c := range cs {
		name := strings.TrimSpace(c.Category)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ByCategory 依組別名稱（去除前後空白）分群，各群保持原順序；names 為排序後的組別名稱。
func ByCategory(cs []Competitor) (names []string, groups map[string][]Competitor) {
	groups = make(map[string][]Competitor)
	for _, c := range cs {
		name := strings.TrimSpace(c.Category)
		groups[name] = append(groups[name], c)
	}
	return Categories(cs), groups
}

// Split 分出已過磅（Weight > 0）與未過磅的選手，保持原順序。
func Split(cs []Competitor) (weighed []Competitor, missing []Competitor) {
	for _, c := range cs {
		if c.Weight > 0 {
			weighed = append(weighed, c)
		} else {
			missing = append(missing, c)
		}
	}
	return weighed, missing
}

// SortByWeight 回傳依體重由小到大排序的複本；同體重保持原順序。
func SortByWeight(cs []Competitor) []Competitor {
	out := append([]Competitor(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}

// Entries 轉成核心使用的 (參照, 體重) 序列；不排序。
func Entries(cs []Competitor) []assign.Entry[Competitor] {
	out := make([]assign.Entry[Competitor], len(cs))
	for i, c := range cs {
		out[i] = assign.Entry[Competitor]{Ref: c, Weight: c.Weight}
	}
	return out
}
