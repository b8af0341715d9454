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
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/assign"
	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/report"
	"github.com/zintix-labs/flexcat/roster"
	"github.com/zintix-labs/flexcat/server/httperr"
	"github.com/zintix-labs/flexcat/server/metrics"
	"github.com/zintix-labs/flexcat/server/svrcfg"
	"github.com/zintix-labs/flexcat/spec"
)

// SuggestRequest 一個組別的分組請求。
//
// competitors 與 weights 擇一；只給 weights 時選手以 "#1"、"#2"... 命名。
// 沒有體重（weight <= 0）的選手不參與分組，列在回應的 unweighed。
type SuggestRequest struct {
	Category    string              `json:"category"`
	Competitors []roster.Competitor `json:"competitors"`
	Weights     []int               `json:"weights"`
	Setting     json.RawMessage     `json:"setting,omitempty"` // 只覆蓋有給的欄位，其餘沿用 server 設定
	Top         int                 `json:"top"`               // 回傳前幾名候選，0 為全部
	Pick        int                 `json:"pick"`              // 採用第幾名（從 0 開始）
	Format      string              `json:"format"`            // json（預設）/ md / text / yaml
}

// ============================================================
// ** SuggestHandler **
// ============================================================

type SuggestHandler struct {
	p         *flexcat.Partitioner
	m         *metrics.Metrics
	log       *slog.Logger
	maxRoster int
	timeout   time.Duration
}

func NewSuggestHandler(sCfg *svrcfg.SvrCfg) (*SuggestHandler, error) {
	if sCfg == nil || sCfg.Partitioner == nil {
		return nil, errs.NewFatal("suggest handler requires a partitioner")
	}
	return &SuggestHandler{
		p:         sCfg.Partitioner,
		m:         sCfg.Metrics,
		log:       sCfg.Log,
		maxRoster: sCfg.MaxRoster,
		timeout:   sCfg.Timeout,
	}, nil
}

// Suggest POST /v1/suggest
func (h *SuggestHandler) Suggest(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := new(SuggestRequest)
	dec := json.NewDecoder(http.MaxBytesReader(w, q.Body, 8<<20))
	if err := dec.Decode(req); err != nil {
		httperr.Errs(w, errs.Warnf("decode request failed: %v", err))
		return
	}
	render, err := report.ByFormat(orJSON(req.Format))
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	p, err := h.partitioner(req.Setting)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	weighed, missing := roster.Split(competitors(req))
	if len(weighed) > h.maxRoster {
		httperr.Errs(w, errs.Warnf("roster too large: %d > %d", len(weighed), h.maxRoster))
		return
	}
	es := roster.Entries(roster.SortByWeight(weighed))

	// 請求解析完成，設置超時 context
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	res, err := flexcat.SuggestEntries(ctx, p, es)
	peak := 0
	if res != nil {
		peak = res.Peak
	}
	h.m.ObserveSuggest(err, time.Since(start), len(es), peak)
	if err != nil {
		httperr.Log(h.log, "suggest failed", err)
		httperr.Errs(w, err)
		return
	}

	chosen, err := res.Pick(req.Pick)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	groups, err := assign.Assign(chosen.Sizes, es, report.PrefixFor(req.Category, p.Setting().LabelPrefix))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	rep := report.Build(req.Category, res, chosen, groups, req.Top, p.Relation(assign.Weights(es)), missing)

	// 先寫進 buffer，保證不會寫到一半才 error
	var b bytes.Buffer
	if err := render.Write(&b, rep); err != nil {
		httperr.Errs(w, errs.Wrap(err, "render report failed"))
		return
	}
	w.Header().Set("Content-Type", contentType(req.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Bytes())
}

// partitioner 把請求的 setting 疊在 server 設定上。
// max_paths、workers、dense_limit 不得超過 server 設定，超過時以 server 值為上限。
func (h *SuggestHandler) partitioner(raw json.RawMessage) (*flexcat.Partitioner, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return h.p, nil
	}
	base := h.p.Setting()
	set, err := spec.OverlayJSON(base, raw)
	if err != nil {
		return nil, err
	}
	set.MaxPaths = min(set.MaxPaths, base.MaxPaths)
	set.Workers = min(set.Workers, base.Workers)
	set.DenseLimit = min(set.DenseLimit, base.DenseLimit)
	return flexcat.New(set, h.log)
}

func competitors(req *SuggestRequest) []roster.Competitor {
	if len(req.Competitors) > 0 || len(req.Weights) == 0 {
		return req.Competitors
	}
	cs := make([]roster.Competitor, len(req.Weights))
	for i, wt := range req.Weights {
		cs[i] = roster.Competitor{Index: i, Last: "#" + strconv.Itoa(i+1), Category: req.Category, Weight: wt}
	}
	return cs
}

func orJSON(format string) string {
	if strings.TrimSpace(format) == "" {
		return "json"
	}
	return format
}

func contentType(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "md", "markdown":
		return "text/markdown; charset=utf-8"
	case "text", "txt":
		return "text/plain; charset=utf-8"
	case "yaml", "yml":
		return "application/yaml"
	default:
		return "application/json"
	}
}
