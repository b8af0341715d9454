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

package main

import (
	"bufio"
	"os"
	"os/exec"
	"strings"

	"github.com/zintix-labs/flexcat/errs"
)

// stream 執行指令並逐行過濾輸出（stderr 併入 stdout，編譯錯誤才看得到）。
// keep 為 nil 時全部印出。
func stream(keep func(line string) bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return errs.Wrap(err, "start "+name+" failed")
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if keep == nil || keep(line) {
			printLine(line)
		}
	}
	if err := cmd.Wait(); err != nil {
		return errs.Wrap(err, name+" finished with errors")
	}
	return nil
}

func printLine(line string) {
	trim := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trim, "ok"), strings.HasPrefix(trim, "--- PASS"):
		PrintGreen(line)
	case strings.HasPrefix(trim, "FAIL"), strings.HasPrefix(trim, "--- FAIL"), strings.Contains(line, "build failed"):
		PrintRed(line)
	case strings.HasPrefix(trim, "=== RUN"):
		PrintBlue(line)
	default:
		PrintDefault(line)
	}
}

func cleanCache() {
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		PrintYellow("go clean -testcache: " + err.Error())
	}
}

func runTest() error {
	PrintGreen("running tests")
	cleanCache()
	return stream(func(l string) bool {
		return strings.HasPrefix(l, "ok") || strings.HasPrefix(l, "FAIL") ||
			strings.Contains(l, "build failed") || strings.Contains(l, "setup failed")
	}, "go", "test", "./...", "-cover", "-count=1")
}

func runTestAll() error {
	cleanCache()
	return stream(nil, "go", "test", "-cover", "./...")
}

func runTestDetail() error {
	cleanCache()
	return stream(func(l string) bool {
		t := strings.TrimSpace(l)
		return strings.HasPrefix(t, "=== RUN") || strings.HasPrefix(t, "--- ") ||
			strings.HasPrefix(t, "ok") || strings.HasPrefix(t, "FAIL") || strings.HasPrefix(t, "PASS")
	}, "go", "test", "./...", "-v", "-count=1")
}

func runDemo() error {
	return stream(nil, "go", "run", "./cmd/flexcat", "-demo", "30", "-seed", "42", "-top", "3")
}

func runProfile() error {
	if err := stream(nil, "go", "run", "./cmd/flexcat", "-demo", "200", "-seed", "42", "-top", "1", "-rounds", "60", "-p", "cpu", "-format", "json"); err != nil {
		return err
	}
	PrintGreen("profile: build/profiling/cpu.pprof")
	return nil
}

func runServe() error {
	cmd := exec.Command("go", "run", "./cmd/svr")
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	return cmd.Run()
}
