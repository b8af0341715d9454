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

package roster_test

import (
	"slices"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/flexcat/roster"
)

const sampleJSON = `[
  {"ix": 1, "last": "Berg", "first": "Jonas", "club": "JC Nord", "category": "M40", "weight": 81200, "seeding": 0, "flags": 0},
  {"ix": 2, "last": "Arnold", "first": "Lena", "club": "TSV Süd", "category": "W40", "weight": 63000},
  {"ix": 3, "last": "Claes", "first": "Tim", "club": "JC Nord", "category": "m40 ", "weight": 78000},
  {"ix": 4, "last": "Dorn", "first": "Max", "club": "SV Ost", "category": "M40", "weight": 0}
]`

func TestLoadJSONIgnoresUnknownFields(t *testing.T) {
	cs, err := roster.LoadJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cs) != 4 || cs[0].Name() != "Berg, Jonas" || cs[1].Club != "TSV Süd" {
		t.Fatalf("got %+v", cs)
	}
}

func TestLoadFS(t *testing.T) {
	src := fstest.MapFS{
		"r.json": {Data: []byte(sampleJSON)},
		"r.yaml": {Data: []byte("- last: Berg\n  weight: 81200\n  category: M40\n")},
		"r.csv":  {Data: []byte("last,weight\n")},
	}
	if cs, err := roster.LoadFS(src, "r.json"); err != nil || len(cs) != 4 {
		t.Fatalf("json: %v %v", cs, err)
	}
	cs, err := roster.LoadFS(src, "r.yaml")
	if err != nil || len(cs) != 1 || cs[0].Weight != 81200 {
		t.Fatalf("yaml: %v %v", cs, err)
	}
	if _, err := roster.LoadFS(src, "r.csv"); err == nil {
		t.Fatalf("csv should be unsupported")
	}
}

func TestFilterSplitSort(t *testing.T) {
	cs, _ := roster.LoadJSON([]byte(sampleJSON))
	m40 := roster.FilterCategory(cs, "M40")
	if len(m40) != 3 {
		t.Fatalf("filter is case and space insensitive: got %d", len(m40))
	}
	weighed, missing := roster.Split(m40)
	if len(weighed) != 2 || len(missing) != 1 || missing[0].Last != "Dorn" {
		t.Fatalf("split: %v / %v", weighed, missing)
	}
	sorted := roster.SortByWeight(weighed)
	if sorted[0].Last != "Claes" || weighed[0].Last != "Berg" {
		t.Fatalf("sort must return a sorted copy")
	}
	es := roster.Entries(sorted)
	if es[0].Weight != 78000 || es[1].Ref.Last != "Berg" {
		t.Fatalf("entries: %+v", es)
	}
	if got := roster.Categories(cs); !slices.Equal(got, []string{"M40", "W40", "m40"}) {
		t.Fatalf("categories: %v", got)
	}
}

func TestByCategory(t *testing.T) {
	cs := []roster.Competitor{
		{Last: "A", Category: "M40 "},
		{Last: "B"},
		{Last: "C", Category: "M40"},
		{Last: "D", Category: "W40"},
	}
	names, groups := roster.ByCategory(cs)
	if !slices.Equal(names, []string{"", "M40", "W40"}) {
		t.Fatalf("names = %q", names)
	}
	if len(groups["M40"]) != 2 || groups["M40"][0].Last != "A" || len(groups[""]) != 1 {
		t.Fatalf("groups = %+v", groups)
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	a := roster.Synthetic(50, 0, "Demo", 42)
	b := roster.Synthetic(50, 0, "Demo", 42)
	if len(a) != 50 {
		t.Fatalf("len = %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed must give same roster at %d", i)
		}
		if a[i].Weight <= 0 {
			t.Fatalf("weight must be positive: %d", a[i].Weight)
		}
	}
	c := roster.Synthetic(50, 0, "Demo", 43)
	if slices.Equal(weights(a), weights(c)) {
		t.Fatalf("different seeds should differ")
	}
}

func TestSyntheticMean(t *testing.T) {
	cs := roster.Synthetic(2000, 60, "", 1)
	sum := 0.0
	for _, c := range cs {
		sum += roster.Kg(c.Weight)
	}
	mean := sum / float64(len(cs))
	// lognormal 平均為 60 * exp(0.02) ≈ 61.2
	if mean < 58 || mean > 64 {
		t.Fatalf("mean = %.2f", mean)
	}
}

func weights(cs []roster.Competitor) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Weight
	}
	return out
}
