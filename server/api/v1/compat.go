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

package v1

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/compat"
	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/report"
	"github.com/zintix-labs/flexcat/server/httperr"
)

// CompatRequest 只看相容關係，不做搜尋
type CompatRequest struct {
	Weights   []int   `json:"weights"`
	Tolerance float64 `json:"tolerance"` // 0 使用 server 預設
}

// CompatResponse 排序後的體重、每人的 M(p) 與矩陣圖
type CompatResponse struct {
	Weights   []int    `json:"weights"`
	Tolerance float64  `json:"tolerance"`
	Reach     []int    `json:"reach"`
	Dense     bool     `json:"dense_matrix"`
	Monotone  bool     `json:"monotone"`
	Matrix    []string `json:"matrix_view,omitempty"`
}

const compatViewLimit int = 60

// Compat POST /v1/compat
func Compat(p *flexcat.Partitioner, maxRoster int) http.HandlerFunc {
	return func(w http.ResponseWriter, q *http.Request) {
		req := new(CompatRequest)
		if err := json.NewDecoder(http.MaxBytesReader(w, q.Body, 1<<20)).Decode(req); err != nil {
			httperr.Errs(w, errs.Warnf("decode request failed: %v", err))
			return
		}
		if len(req.Weights) == 0 {
			httperr.Errs(w, errs.ErrEmptyInput)
			return
		}
		if len(req.Weights) > maxRoster {
			httperr.Errs(w, errs.Warnf("roster too large: %d > %d", len(req.Weights), maxRoster))
			return
		}
		set := p.Setting()
		tol := req.Tolerance
		if tol == 0 {
			tol = set.Tolerance
		}
		if tol <= 0 || tol >= 1 {
			httperr.Errs(w, errs.Codef(errs.CodeConfig, "tolerance must be in (0, 1): %v", tol))
			return
		}

		ws := slices.Clone(req.Weights)
		slices.Sort(ws)
		rel := compat.Auto(ws, tol, set.DenseLimit)

		resp := CompatResponse{Weights: ws, Tolerance: tol, Reach: make([]int, len(ws)), Monotone: true}
		for i := range ws {
			resp.Reach[i] = rel.Reach(i)
		}
		if m, ok := rel.(*compat.Matrix); ok {
			resp.Dense = true
			resp.Monotone = m.IsMonotone()
		}
		if len(ws) <= compatViewLimit {
			resp.Matrix = report.MatrixView(rel, nil)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			httperr.Errs(w, err)
		}
	}
}

// Setting GET /v1/setting：回傳 server 預設設定
func Setting(p *flexcat.Partitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, q *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p.Setting()); err != nil {
			httperr.Errs(w, err)
		}
	}
}
