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

package report

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zintix-labs/flexcat/roster"
)

const (
	defaultBins int = 20
	barWidth    int = 40
)

// Bin 體重分布的一個區間 [LoKg, HiKg)
type Bin struct {
	LoKg  float64 `json:"lo_kg" yaml:"lo_kg"`
	HiKg  float64 `json:"hi_kg" yaml:"hi_kg"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram 把體重（公克）分成 bins 個等寬區間；bins <= 0 使用 20。
func Histogram(weights []int, bins int) []Bin {
	if len(weights) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = defaultBins
	}
	kg := make([]float64, len(weights))
	for i, w := range weights {
		kg[i] = roster.Kg(w)
	}
	slices.Sort(kg)
	lo, hi := kg[0], kg[len(kg)-1]
	if hi == lo {
		return []Bin{{LoKg: lo, HiKg: hi, Count: len(kg)}}
	}
	// 最後一個分隔點略大於最大值，讓最大值落在最後一個區間
	dividers := make([]float64, bins+1)
	top := math.Nextafter(hi, math.Inf(1))
	floats.Span(dividers, lo, top)
	dividers[0], dividers[bins] = lo, top
	counts := stat.Histogram(nil, dividers, kg, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{LoKg: dividers[i], HiKg: dividers[i+1], Count: int(counts[i])}
	}
	return out
}

// bars 以 '█' 長條描繪直方圖
func bars(hist []Bin) []string {
	peak := 0
	for _, b := range hist {
		peak = max(peak, b.Count)
	}
	out := make([]string, len(hist))
	for i, b := range hist {
		w := 0
		if peak > 0 {
			w = int(math.Round(float64(b.Count) / float64(peak) * float64(barWidth)))
		}
		if b.Count > 0 {
			w = max(w, 1)
		}
		out[i] = strings.Repeat("█", w)
	}
	return out
}
