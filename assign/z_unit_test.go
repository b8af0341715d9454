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

package assign_test

import (
	"testing"

	"github.com/zintix-labs/flexcat/assign"
)

func entries(ws ...int) []assign.Entry[string] {
	out := make([]assign.Entry[string], len(ws))
	for i, w := range ws {
		out[i] = assign.Entry[string]{Ref: string(rune('A' + i)), Weight: w}
	}
	return out
}

func TestAssign(t *testing.T) {
	es := entries(38000, 39000, 40000, 41000, 42000)
	groups, err := assign.Assign([]int{2, 2, 1}, es, "G")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups = %d", len(groups))
	}
	want := []struct {
		label  string
		lo, hi int
		refs   string
	}{
		{"G01", 38000, 39000, "AB"},
		{"G02", 40000, 41000, "CD"},
		{"G03", 42000, 42000, "E"},
	}
	for i, w := range want {
		g := groups[i]
		refs := ""
		for _, m := range g.Members {
			refs += m.Ref
		}
		if g.Index != i || g.Label != w.label || g.Lower != w.lo || g.Upper != w.hi || refs != w.refs {
			t.Fatalf("group %d: %+v", i, g)
		}
	}
}

func TestAssignRejectsMismatch(t *testing.T) {
	es := entries(40000, 41000, 42000)
	if _, err := assign.Assign([]int{2}, es, "G"); err == nil {
		t.Fatalf("short sizes should fail")
	}
	if _, err := assign.Assign([]int{2, 2}, es, "G"); err == nil {
		t.Fatalf("long sizes should fail")
	}
	if _, err := assign.Assign([]int{3, 0}, es, "G"); err == nil {
		t.Fatalf("zero-size group should fail")
	}
}

func TestHelpers(t *testing.T) {
	es := entries(40000, 39000)
	if assign.IsSorted(es) {
		t.Fatalf("descending input reported sorted")
	}
	if ws := assign.Weights(es); ws[0] != 40000 || ws[1] != 39000 {
		t.Fatalf("weights = %v", ws)
	}
	if assign.Label("Gruppe ", 11) != "Gruppe 12" {
		t.Fatalf("label = %q", assign.Label("Gruppe ", 11))
	}
}
