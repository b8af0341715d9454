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

// Package perf 包一層 runtime/pprof，讓 CLI 可以對大名單的搜尋做 profiling。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/flexcat/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Mode profiling 種類
type Mode string

const (
	None   Mode = ""
	CPU    Mode = "cpu"
	Heap   Mode = "heap"
	Allocs Mode = "allocs"
)

// ParseMode 解析 -p 參數；未知值回傳 Warn。
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case None, CPU, Heap, Allocs:
		return m, nil
	default:
		return None, errs.Warnf("unknown pprof mode: %q (cpu|heap|allocs)", s)
	}
}

// Run 依 mode 執行 exe 並把 profile 寫到 dir；mode 為 None 時只執行 exe。
// exe 的錯誤優先於 profile 寫檔錯誤回傳。
func Run(dir string, mode Mode, exe func() error) error {
	if mode == None {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create profiling dir failed")
	}
	path := filepath.Join(dir, string(mode)+".pprof")

	switch mode {
	case CPU:
		f, err := os.Create(path)
		if err != nil {
			return errs.Wrap(err, "create "+path+" failed")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "start cpu profile failed")
		}
		err = exe()
		pprof.StopCPUProfile()
		return err
	default:
		// heap / allocs 在 exe 結束後拍一次快照
		err := exe()
		if werr := snapshot(path, mode); err == nil {
			err = werr
		}
		return err
	}
}

func snapshot(path string, mode Mode) error {
	// 盡量讓快照貼近最新狀態
	runtime.GC()
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create "+path+" failed")
	}
	defer f.Close()
	if mode == Heap {
		return pprof.WriteHeapProfile(f)
	}
	if prof := pprof.Lookup("allocs"); prof != nil {
		return prof.WriteTo(f, 0)
	}
	return nil
}
