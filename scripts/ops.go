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
	"fmt"
	"os"
	"sort"
)

// 開發用任務：go run ./scripts <task>
type task struct {
	help string
	run  func() error
}

var tasks = map[string]task{
	"test":        {"go test ./... (only ok/FAIL lines)", runTest},
	"test-all":    {"go test -cover ./...", runTestAll},
	"test-detail": {"go test -v ./... (only RUN/PASS/FAIL lines)", runTestDetail},
	"demo":        {"suggest categories for a 30-competitor synthetic roster", runDemo},
	"profile":     {"cpu profile of a 200-competitor synthetic roster into build/profiling", runProfile},
	"serve":       {"start the HTTP server on :5808", runServe},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		PrintYellow(fmt.Sprintf("Unknown task: %s", os.Args[1]))
		usage()
		os.Exit(1)
	}
	if err := t.run(); err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-12s %s\n", n, tasks[n].help)
	}
}
