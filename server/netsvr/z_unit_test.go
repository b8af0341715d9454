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

package netsvr_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/flexcat/server/netsvr"
)

func TestChiAdapterRoutes(t *testing.T) {
	s := netsvr.NewChiServer(":0")
	if !s.Ready() {
		t.Fatalf("adapter not ready")
	}
	s.Group("/v1", func(r netsvr.NetRouter) {
		r.Get("/setting", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/setting", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("get: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/setting", nil))
	if rec.Code != http.StatusMethodNotAllowed || !strings.Contains(rec.Body.String(), `"status":405`) {
		t.Fatalf("405: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("404: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestDefaults(t *testing.T) {
	if a := netsvr.NewChiServerWith("", netsvr.Timeouts{}).Address(); a != ":5808" {
		t.Fatalf("addr = %q", a)
	}
}
