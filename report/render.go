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
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/flexcat/errs"
)

// Render 定義輸出行為
type Render interface {
	Write(w io.Writer, r *Report) error
}

// ByFormat 依名稱取得 Render：text / md / json / yaml
func ByFormat(name string) (Render, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return &TextRender{}, nil
	case "md", "markdown":
		return &MarkdownRender{}, nil
	case "json":
		return &JSONRender{}, nil
	case "yaml", "yml":
		return &YAMLRender{}, nil
	default:
		return nil, errs.Warnf("unknown output format: %q", name)
	}
}

// Json渲染
type JSONRender struct {
	Indent bool
}

func (jr *JSONRender) Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if jr.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, r *Report) error {
	// 最內層的一維陣列（group_sizes、weights）輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// 文字表格渲染（終端機）
type TextRender struct {
	// NoMatrix 不輸出相容矩陣圖
	NoMatrix bool
}

func (tr *TextRender) Write(w io.Writer, r *Report) error {
	p := message.NewPrinter(lang)
	var b strings.Builder

	keys := []string{"Category", "Competitors", "Candidates", "Rounds", "Peak Frontier", "Chosen", "Groups", "Singletons", "Size StdDev", "Elapsed"}
	msg := map[string]string{
		"Category":      r.Category,
		"Competitors":   p.Sprintf("%d", r.Competitors),
		"Candidates":    p.Sprintf("%d", r.Found),
		"Rounds":        p.Sprintf("%d", r.Rounds),
		"Peak Frontier": p.Sprintf("%d", r.Peak),
		"Chosen":        sizesString(r.Chosen.Sizes),
		"Groups":        p.Sprintf("%d", r.Chosen.Groups),
		"Singletons":    p.Sprintf("%d", r.Chosen.Singletons),
		"Size StdDev":   p.Sprintf("%.3f", r.Chosen.StdDev),
		"Elapsed":       fmtDuration(r.Elapsed),
	}
	if len(r.Unweighed) > 0 {
		keys = append(keys, "Unweighed")
		msg["Unweighed"] = p.Sprintf("%d", len(r.Unweighed))
	}
	b.WriteString(fmtTable(r.Category, keys, msg))
	b.WriteByte('\n')

	if len(r.Candidates) > 0 {
		rows := make([][]string, 0, len(r.Candidates))
		for i, c := range r.Candidates {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				sizesString(c.Sizes),
				strconv.Itoa(c.Groups),
				strconv.Itoa(c.Singletons),
				p.Sprintf("%.3f", c.StdDev),
			})
		}
		b.WriteString(fmtGrid([]string{"#", "Sizes", "Groups", "Singletons", "StdDev"}, rows))
		b.WriteByte('\n')
	}

	for _, g := range r.Groups {
		rows := make([][]string, 0, len(g.Members))
		for _, m := range g.Members {
			rows = append(rows, []string{m.Name, m.Club, p.Sprintf("%.2f kg", m.Kg)})
		}
		b.WriteString(p.Sprintf("%s (%.2f - %.2f kg)\n", g.Label, g.LowerKg, g.UpperKg))
		b.WriteString(fmtGrid([]string{"Name", "Club", "Weight"}, rows))
	}

	if len(r.Unweighed) > 0 {
		b.WriteString("\nUnweighed: " + strings.Join(r.Unweighed, "; ") + "\n")
	}

	if hist := Histogram(r.Weights, 0); len(hist) > 0 {
		b.WriteString("\nDistribution\n")
		for i, bar := range bars(hist) {
			b.WriteString(p.Sprintf("%7.2f - %7.2f kg | %3d %s\n", hist[i].LoKg, hist[i].HiKg, hist[i].Count, bar))
		}
	}

	if !tr.NoMatrix && len(r.Matrix) > 0 {
		b.WriteString("\nCompatibility ('#' chosen group, '+' compatible, '.' not)\n")
		for _, row := range r.Matrix {
			b.WriteString(row)
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sizesString(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// styleReadableSequences 讓不含子 sequence 的 sequence 使用 flow style，
// 但元素本身是 mapping（例如 groups、members）時保持展開。
func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		flat := true
		for _, c := range n.Content {
			if c != nil && c.Kind != yaml.ScalarNode {
				flat = false
			}
			styleReadableSequences(c)
		}
		if flat {
			n.Style = yaml.FlowStyle
		}
	}
}
