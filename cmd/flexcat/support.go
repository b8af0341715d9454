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
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"io"
	"math"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/assign"
	"github.com/zintix-labs/flexcat/errs"
	"github.com/zintix-labs/flexcat/perf"
	"github.com/zintix-labs/flexcat/report"
	"github.com/zintix-labs/flexcat/roster"
	"github.com/zintix-labs/flexcat/server/logger"
	"github.com/zintix-labs/flexcat/spec"
)

const (
	exitOK         int = 0
	exitErr        int = 1
	exitUsage      int = 2
	exitInfeasible int = 3
)

type config struct {
	roster    string
	category  string
	config    string
	top       int
	pick      int
	format    string
	archive   string
	demo      int
	seed      int64
	workers   int
	rounds    int
	width     int
	tolerance float64
	tie       string
	progress  bool
	verbose   bool
	pprofmode string
}

func bindVar(fs *flag.FlagSet, cfg *config, tty bool) {
	fs.StringVar(&cfg.roster, "roster", "", "roster file (.json / .yaml)")
	fs.StringVar(&cfg.category, "category", "", "only this category (default: every category in the roster)")
	fs.StringVar(&cfg.config, "config", "", "search setting file (.json / .yaml)")
	fs.IntVar(&cfg.top, "top", 5, "number of ranked candidates to show (0 = all)")
	fs.IntVar(&cfg.pick, "pick", 0, "use the i-th ranked candidate (0 = best)")
	fs.StringVar(&cfg.format, "format", "text", "output: text|md|json|yaml")
	fs.StringVar(&cfg.archive, "archive", "", "also save every report to this zstd archive")
	fs.IntVar(&cfg.demo, "demo", 0, "generate a synthetic roster of n competitors instead of -roster")
	fs.Int64Var(&cfg.seed, "seed", -1, "seed for -demo (random when < 1)")
	fs.IntVar(&cfg.workers, "workers", 0, "categories processed in parallel (0 = setting)")
	fs.IntVar(&cfg.rounds, "rounds", 0, "override max_rounds")
	fs.IntVar(&cfg.width, "width", 0, "override branch_width")
	fs.Float64Var(&cfg.tolerance, "tolerance", 0, "override tolerance")
	fs.StringVar(&cfg.tie, "tie", "", "override tie_break: discovery|fewer_singletons|more_groups|fewer_groups|lexicographic")
	fs.BoolVar(&cfg.progress, "progress", tty, "show a progress bar over categories (default on when stderr is a terminal)")
	fs.BoolVar(&cfg.verbose, "v", false, "debug log to stderr")
	fs.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
}

// run 回傳 exit code：0 成功、1 其他錯誤、2 參數錯誤、3 有組別找不到分組。
func run(args []string, stdout, stderr io.Writer) int {
	p := message.NewPrinter(language.English)
	cfg := new(config)
	fs := flag.NewFlagSet("flexcat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bindVar(fs, cfg, isTerminal(stderr))
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if err := cfg.valid(); err != nil {
		p.Fprintf(stderr, "value err : %v\n", err)
		return exitUsage
	}
	mode, err := perf.ParseMode(cfg.pprofmode)
	if err != nil {
		p.Fprintf(stderr, "value err : %v\n", err)
		return exitUsage
	}

	set, err := cfg.setting(fs)
	if err != nil {
		p.Fprintf(stderr, "config err : %v\n", err)
		return exitUsage
	}
	log := logger.NewDefaultLogger(logger.ModeSilence)
	if cfg.verbose {
		log = logger.NewDefaultLogger(logger.ModeDev)
	}
	part, err := flexcat.New(set, log)
	if err != nil {
		p.Fprintf(stderr, "config err : %v\n", err)
		return exitUsage
	}
	cs, err := cfg.competitors()
	if err != nil {
		p.Fprintf(stderr, "roster err : %v\n", err)
		return exitUsage
	}
	render, err := report.ByFormat(cfg.format)
	if err != nil {
		p.Fprintf(stderr, "value err : %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := exitOK
	err = perf.Run(perf.DefaultDir, mode, func() error {
		reports, c := suggestAll(ctx, part, cfg, cs, stderr)
		code = c
		for _, r := range reports {
			if err := render.Write(stdout, r); err != nil {
				return err
			}
		}
		if cfg.archive != "" && len(reports) > 0 {
			if err := report.SaveFile(cfg.archive, reports...); err != nil {
				return err
			}
			p.Fprintf(stderr, "archive: %s (%d categories)\n", cfg.archive, len(reports))
		}
		return nil
	})
	if err != nil {
		p.Fprintf(stderr, "err : %v\n", err)
		return exitErr
	}
	return code
}

// suggestAll 把名單依組別切開後平行計算，回傳成功組別的報表與 exit code。
func suggestAll(ctx context.Context, part *flexcat.Partitioner, cfg *config, cs []roster.Competitor, stderr io.Writer) ([]*report.Report, int) {
	p := message.NewPrinter(language.English)
	set := part.Setting()

	names, groups := roster.ByCategory(cs)
	if cfg.category != "" {
		names = []string{strings.TrimSpace(cfg.category)}
		groups = map[string][]roster.Competitor{names[0]: roster.FilterCategory(cs, cfg.category)}
	}

	cats := make([]flexcat.Category[roster.Competitor], 0, len(names))
	missing := make([][]roster.Competitor, 0, len(names))
	for _, name := range names {
		weighed, miss := roster.Split(groups[name])
		cats = append(cats, flexcat.Category[roster.Competitor]{
			Name:    name,
			Prefix:  report.PrefixFor(name, set.LabelPrefix),
			Entries: roster.Entries(roster.SortByWeight(weighed)),
		})
		missing = append(missing, miss)
	}

	code := exitOK
	outs := flexcat.SuggestBatch(ctx, part, cats, cfg.workers, cfg.progress)
	reports := make([]*report.Report, 0, len(outs))
	for i, o := range outs {
		if o.Err != nil {
			p.Fprintf(stderr, "[%s] %v\n", display(o.Name), o.Err)
			code = worse(code, exitCode(o.Err))
			continue
		}
		chosen, err := o.Result.Pick(cfg.pick)
		if err != nil {
			p.Fprintf(stderr, "[%s] %v\n", display(o.Name), err)
			code = worse(code, exitUsage)
			continue
		}
		gs := o.Groups
		if cfg.pick != 0 {
			if gs, err = assign.Assign(chosen.Sizes, cats[i].Entries, cats[i].Prefix); err != nil {
				p.Fprintf(stderr, "[%s] %v\n", display(o.Name), err)
				code = worse(code, exitErr)
				continue
			}
		}
		rel := part.Relation(assign.Weights(cats[i].Entries))
		reports = append(reports, report.Build(o.Name, o.Result, chosen, gs, cfg.top, rel, missing[i]))
	}
	return reports, code
}

// isTerminal 只有 *os.File 且為 TTY 時為 true（測試中的 buffer 為 false）
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func display(name string) string {
	if name == "" {
		return "(no category)"
	}
	return name
}

// exitCode 找不到分組（含超出搜尋預算）為 3、參數問題為 2，其餘為 1。
func exitCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrInfeasible), errors.Is(err, errs.ErrBudget):
		return exitInfeasible
	case errors.Is(err, errs.ErrEmptyInput), errors.Is(err, errs.ErrUnsorted), errors.Is(err, errs.ErrNegative):
		return exitUsage
	default:
		return exitErr
	}
}

// 多個組別時保留最嚴重的 code：1 > 3 > 2 > 0
func worse(a, b int) int {
	rank := func(c int) int {
		switch c {
		case exitErr:
			return 3
		case exitInfeasible:
			return 2
		case exitUsage:
			return 1
		}
		return 0
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func (cfg *config) valid() error {
	if cfg.roster == "" && cfg.demo < 1 {
		return errs.NewWarn("either -roster or -demo n is required")
	}
	if cfg.roster != "" && cfg.demo > 0 {
		return errs.NewWarn("-roster and -demo are exclusive")
	}
	if cfg.top < 0 || cfg.pick < 0 || cfg.workers < 0 {
		return errs.NewWarn("-top, -pick and -workers must be >= 0")
	}
	if cfg.demo > 100000 {
		return errs.Warnf("-demo too large: %d (max 100000)", cfg.demo)
	}
	// given seed illegal -> random seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			return errs.Wrap(err, "seed")
		}
		cfg.seed = seed.Int64()
	}
	return nil
}

// setting 讀設定檔（若有），再以有明確指定的 flag 覆蓋。明確給 0 的 -rounds / -width / -tolerance 視為錯誤。
func (cfg *config) setting(fs *flag.FlagSet) (*spec.SearchSetting, error) {
	set := spec.Default()
	if cfg.config != "" {
		s, err := spec.GetSearchSettingByFS(os.DirFS(filepath.Dir(cfg.config)), filepath.Base(cfg.config))
		if err != nil {
			return nil, err
		}
		set = s
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rounds":
			set.MaxRounds = cfg.rounds
		case "width":
			set.BranchWidth = cfg.width
		case "tolerance":
			set.Tolerance = cfg.tolerance
		case "tie":
			set.TieBreak = cfg.tie
		case "workers":
			if cfg.workers > 0 {
				set.Workers = cfg.workers
			}
		}
	})
	// set 已補過預設值；此處的零值只會來自明確的 flag，不再 Normalize。
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func (cfg *config) competitors() ([]roster.Competitor, error) {
	if cfg.demo > 0 {
		category := cfg.category
		if category == "" {
			category = "Demo ?"
		}
		return roster.Synthetic(cfg.demo, 0, category, uint64(cfg.seed)), nil
	}
	return roster.LoadFS(os.DirFS(filepath.Dir(cfg.roster)), filepath.Base(cfg.roster))
}
