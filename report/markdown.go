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
	"io"
	"strings"

	"golang.org/x/text/message"
)

// MarkdownRender 輸出給賽會公告用的概覽：
// 組別清單、每組選手（"姓, 名, 俱樂部, 41.20kg"）、體重分布。標題沿用賽會慣用的德文。
type MarkdownRender struct{}

func (mr *MarkdownRender) Write(w io.Writer, r *Report) error {
	p := message.NewPrinter(lang)
	var b strings.Builder

	heads := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		heads[i] = p.Sprintf("Gruppe %s (%.2f - %.2f kg)", g.Label, g.LowerKg, g.UpperKg)
	}

	b.WriteString("# Gewichtsklassen " + r.Category + "\n\n")
	for _, h := range heads {
		b.WriteString("- " + h + "\n")
	}
	b.WriteString("\n## Zuordnungen\n\n")
	for i, g := range r.Groups {
		b.WriteString("### " + heads[i] + "\n\n")
		for _, m := range g.Members {
			b.WriteString(p.Sprintf("- %s, %s, %.2fkg\n", m.Name, m.Club, m.Kg))
		}
		b.WriteByte('\n')
	}
	if len(r.Unweighed) > 0 {
		b.WriteString("## Ohne Gewicht\n\n")
		for _, n := range r.Unweighed {
			b.WriteString("- " + n + "\n")
		}
		b.WriteByte('\n')
	}

	if hist := Histogram(r.Weights, 0); len(hist) > 0 {
		b.WriteString("## Verteilung\n\n```text\n")
		for i, bar := range bars(hist) {
			b.WriteString(p.Sprintf("%7.2f - %7.2f kg | %3d %s\n", hist[i].LoKg, hist[i].HiKg, hist[i].Count, bar))
		}
		b.WriteString("```\n")
		b.WriteString("Gewichtsverteilung sowie Klasseneinteilung über Gewicht\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
