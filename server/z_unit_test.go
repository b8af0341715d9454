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

package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/report"
	"github.com/zintix-labs/flexcat/server"
	v1 "github.com/zintix-labs/flexcat/server/api/v1"
	"github.com/zintix-labs/flexcat/server/httperr"
	"github.com/zintix-labs/flexcat/server/logger"
	"github.com/zintix-labs/flexcat/server/svrcfg"
	"github.com/zintix-labs/flexcat/spec"
)

var scenarioA = []int{38000, 39000, 40000, 41000, 42000}

func newHandler(t *testing.T, maxRoster int) http.Handler {
	t.Helper()
	return newHandlerWith(t, nil, maxRoster)
}

func newHandlerWith(t *testing.T, set *spec.SearchSetting, maxRoster int) http.Handler {
	t.Helper()
	p, err := flexcat.New(set, nil)
	if err != nil {
		t.Fatalf("partitioner: %v", err)
	}
	h, err := server.Handler(&svrcfg.SvrCfg{
		Log:         logger.NewDefaultLogger(logger.ModeSilence),
		Partitioner: p,
		MaxRoster:   maxRoster,
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return h
}

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) httperr.Body {
	t.Helper()
	var b httperr.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("error body: %v (%s)", err, rec.Body.String())
	}
	return b
}

func TestIndexAndHealth(t *testing.T) {
	h := newHandler(t, 0)
	rec := do(h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/suggest") {
		t.Fatalf("index: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestSuggestWeights(t *testing.T) {
	h := newHandler(t, 0)
	rec := do(h, http.MethodPost, "/v1/suggest", v1.SuggestRequest{Category: "U18 ?", Weights: scenarioA, Top: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var r report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(r.Chosen.Sizes, []int{2, 2, 1}) || r.Found != 4 || len(r.Candidates) != 2 {
		t.Fatalf("report: %+v", r)
	}
	if r.Category != "U18" || len(r.Groups) != 3 || r.Groups[0].Label != "U18 G01" || r.Groups[0].Members[0].Name != "#1" {
		t.Fatalf("groups: %+v", r.Groups)
	}
}

func TestSuggestCompetitorsUnsortedWithUnweighed(t *testing.T) {
	h := newHandler(t, 0)
	body := map[string]any{
		"category": "Masters",
		"pick":     1,
		"competitors": []map[string]any{
			{"last": "Ek", "first": "Åsa", "weight": 42000},
			{"last": "Arnold", "first": "Lena", "weight": 38000},
			{"last": "Dorn", "first": "Max", "weight": 41000},
			{"last": "Berg", "first": "Jonas", "weight": 39000},
			{"last": "Claes", "first": "Tim", "weight": 40000},
			{"last": "Fink", "first": "Ole", "weight": 0},
		},
	}
	rec := do(h, http.MethodPost, "/v1/suggest", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var r report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Competitors != 5 || !slices.Equal(r.Chosen.Sizes, []int{2, 3}) {
		t.Fatalf("pick 1: %+v", r.Chosen)
	}
	if r.Groups[0].Label != "G01" || r.Groups[0].Members[0].Name != "Arnold, Lena" {
		t.Fatalf("groups: %+v", r.Groups)
	}
	if len(r.Unweighed) != 1 || r.Unweighed[0] != "Fink, Ole" {
		t.Fatalf("unweighed: %v", r.Unweighed)
	}
}

func TestSuggestErrors(t *testing.T) {
	h := newHandler(t, 4)
	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"empty", v1.SuggestRequest{}, http.StatusBadRequest, "empty_input"},
		{"too large", v1.SuggestRequest{Weights: scenarioA}, http.StatusBadRequest, ""},
		{"infeasible", map[string]any{"weights": []int{38000, 50000}, "setting": map[string]any{"max_rounds": 1}}, http.StatusUnprocessableEntity, "infeasible"},
		{"bad setting", map[string]any{"weights": scenarioA[:4], "setting": map[string]any{"tolerance": 2}}, http.StatusBadRequest, "invalid_config"},
		{"pick out of range", v1.SuggestRequest{Weights: scenarioA[:2], Pick: 9}, http.StatusBadRequest, ""},
		{"bad format", v1.SuggestRequest{Weights: scenarioA[:2], Format: "pdf"}, http.StatusBadRequest, ""},
	}
	for _, c := range cases {
		rec := do(h, http.MethodPost, "/v1/suggest", c.body)
		if rec.Code != c.status {
			t.Fatalf("%s: status %d, want %d (%s)", c.name, rec.Code, c.status, rec.Body.String())
		}
		if b := decodeErr(t, rec); c.code != "" && b.Code != c.code {
			t.Fatalf("%s: code %q, want %q", c.name, b.Code, c.code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/suggest", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: %d", rec.Code)
	}
}

func TestSuggestMarkdown(t *testing.T) {
	h := newHandler(t, 0)
	rec := do(h, http.MethodPost, "/v1/suggest", v1.SuggestRequest{Category: "U12", Weights: scenarioA, Format: "md"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "# Gewichtsklassen U12\n") {
		t.Fatalf("markdown:\n%s", rec.Body.String())
	}
}

func TestSuggestGzip(t *testing.T) {
	h := newHandler(t, 0)
	raw, _ := json.Marshal(v1.SuggestRequest{Weights: scenarioA})
	req := httptest.NewRequest(http.MethodPost, "/v1/suggest", bytes.NewReader(raw))
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("status %d, encoding %q", rec.Code, rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	var r report.Report
	if err := json.NewDecoder(zr).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(r.Chosen.Sizes, []int{2, 2, 1}) {
		t.Fatalf("sizes %v", r.Chosen.Sizes)
	}
}

func TestCompat(t *testing.T) {
	h := newHandler(t, 0)
	rec := do(h, http.MethodPost, "/v1/compat", v1.CompatRequest{Weights: []int{42000, 38000, 40000, 39000, 41000}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp v1.CompatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(resp.Weights, scenarioA) || !slices.Equal(resp.Reach, []int{4, 4, 3, 2, 1}) {
		t.Fatalf("compat: %+v", resp)
	}
	if !resp.Dense || !resp.Monotone || resp.Tolerance != 0.10 || len(resp.Matrix) != 5 {
		t.Fatalf("compat flags: %+v", resp)
	}

	if rec := do(h, http.MethodPost, "/v1/compat", v1.CompatRequest{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty compat: %d", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/v1/compat", v1.CompatRequest{Weights: scenarioA, Tolerance: 1.5}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad tolerance: %d", rec.Code)
	}
}

func TestSettingAndMetrics(t *testing.T) {
	h := newHandler(t, 0)
	rec := do(h, http.MethodGet, "/v1/setting", nil)
	var set map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("setting: %v", err)
	}
	if set["max_rounds"] != float64(12) || set["branch_width"] != float64(3) || set["tie_break"] != "discovery" {
		t.Fatalf("setting: %v", set)
	}

	do(h, http.MethodPost, "/v1/suggest", v1.SuggestRequest{Weights: scenarioA})
	do(h, http.MethodPost, "/v1/suggest", v1.SuggestRequest{})
	rec = do(h, http.MethodGet, "/metrics", nil)
	out := rec.Body.String()
	for _, want := range []string{
		`flexcat_suggest_total{outcome="ok"} 1`,
		`flexcat_suggest_total{outcome="empty_input"} 1`,
		`flexcat_http_requests_total{method="POST",status="200"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestSuggestSettingKeepsServerDefaults(t *testing.T) {
	set := spec.Default()
	set.Tolerance = 0.05
	h := newHandlerWith(t, set, 0)
	weights := []int{38000, 38500, 39000, 40000, 41000}

	chosen := func(setting any) []int {
		t.Helper()
		body := map[string]any{"weights": weights}
		if setting != nil {
			body["setting"] = setting
		}
		rec := do(h, http.MethodPost, "/v1/suggest", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		var r report.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return r.Chosen.Sizes
	}

	base := chosen(nil)
	if !slices.Equal(base, []int{2, 2, 1}) {
		t.Fatalf("server tolerance 0.05: %v", base)
	}
	if got := chosen(map[string]any{"max_rounds": 12}); !slices.Equal(got, base) {
		t.Fatalf("overriding max_rounds changed the tolerance: %v", got)
	}
	if got := chosen(map[string]any{"tolerance": 0.10}); !slices.Equal(got, []int{5}) {
		t.Fatalf("explicit tolerance 0.10: %v", got)
	}

	for name, setting := range map[string]any{
		"zero tolerance": map[string]any{"tolerance": 0},
		"unknown field":  map[string]any{"tolerence": 0.1},
	} {
		rec := do(h, http.MethodPost, "/v1/suggest", map[string]any{"weights": weights, "setting": setting})
		if rec.Code != http.StatusBadRequest || decodeErr(t, rec).Code != "invalid_config" {
			t.Fatalf("%s: status %d (%s)", name, rec.Code, rec.Body.String())
		}
	}
}

func TestSuggestSettingCannotRaiseLimits(t *testing.T) {
	set := spec.Default()
	set.MaxPaths = 1
	h := newHandlerWith(t, set, 0)
	for _, setting := range []any{nil, map[string]any{"max_paths": 1000000}} {
		body := map[string]any{"weights": scenarioA}
		if setting != nil {
			body["setting"] = setting
		}
		rec := do(h, http.MethodPost, "/v1/suggest", body)
		if rec.Code != http.StatusUnprocessableEntity || decodeErr(t, rec).Code != "budget_exceeded" {
			t.Fatalf("setting %v: status %d (%s)", setting, rec.Code, rec.Body.String())
		}
	}
}

func TestSuggestNegativeWeight(t *testing.T) {
	h := newHandler(t, 0)
	rec := do(h, http.MethodPost, "/v1/suggest", map[string]any{"weights": []int{40000, -5000}})
	// weight <= 0 在邊界層被當成未量體重，不進入分組
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var r report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Competitors != 1 || len(r.Unweighed) != 1 {
		t.Fatalf("report: %+v", r)
	}
}
