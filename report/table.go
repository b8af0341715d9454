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
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang = language.English

// fmtTable 兩欄（key / value）置中標題表格。寬度以 runewidth 計算，姓名含變音符號或全形字也能對齊。
func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for _, k := range keys {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(msg[k]))
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	b.WriteString(divider)
	for _, k := range keys {
		b.WriteString(p.Sprintf("| %s%s | %s%s |\n",
			k, blank(maxKeyLen-2-runewidth.StringWidth(k)),
			msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	b.WriteString(divider)
	return b.String()
}

// fmtGrid 多欄表格；rows 中每列長度需與 header 相同。
func fmtGrid(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	var divider strings.Builder
	divider.WriteByte('+')
	for _, w := range widths {
		divider.WriteString(strings.Repeat("-", w+2))
		divider.WriteByte('+')
	}
	divider.WriteByte('\n')

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteByte('|')
		for i, c := range cells {
			b.WriteByte(' ')
			b.WriteString(runewidth.FillRight(c, widths[i]))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
		return b.String()
	}

	var b strings.Builder
	b.WriteString(divider.String())
	b.WriteString(line(header))
	b.WriteString(divider.String())
	for _, r := range rows {
		b.WriteString(line(r))
	}
	b.WriteString(divider.String())
	return b.String()
}

// fmtDuration 例如 "850 µs"、"12.40 ms"、"3.20 s"
func fmtDuration(d time.Duration) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Millisecond:
		return p.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return p.Sprintf("%.2f ms", float64(d.Microseconds())/1000.0)
	default:
		return p.Sprintf("%.2f s", d.Seconds())
	}
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
