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

package roster

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	synthMeanKg  float64 = 40 // 平均體重的期望值
	synthMeanStd float64 = 5  // 平均體重的標準差
	synthSigma   float64 = 0.2
)

// Synthetic 產生 n 位體重呈對數常態分布的測試選手（公克，未排序）。
//
// meanKg <= 0 時，平均體重本身由 N(40, 5) 抽出；同一個 seed 產生同一份名單。
func Synthetic(n int, meanKg float64, category string, seed uint64) []Competitor {
	src := rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)
	if meanKg <= 0 {
		meanKg = distuv.Normal{Mu: synthMeanKg, Sigma: synthMeanStd, Src: src}.Rand()
		meanKg = max(meanKg, 1)
	}
	ln := distuv.LogNormal{Mu: math.Log(meanKg), Sigma: synthSigma, Src: src}
	out := make([]Competitor, n)
	for i := range out {
		out[i] = Competitor{
			Index:    i + 1,
			Last:     fmt.Sprintf("Competitor%03d", i+1),
			First:    "Test",
			Club:     "Synthetic",
			Category: category,
			Weight:   int(1000 * ln.Rand()),
		}
	}
	return out
}
