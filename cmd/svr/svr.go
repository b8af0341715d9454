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
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/server"
	"github.com/zintix-labs/flexcat/server/logger"
	"github.com/zintix-labs/flexcat/server/svrcfg"
	"github.com/zintix-labs/flexcat/spec"
)

// flexcat 分組建議服務入口。設定檔為選填；未指定時使用預設搜尋參數。
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	server.Run(cfg)
}

type config struct {
	Addr      string
	LogMode   string
	Setting   string
	MaxRoster int
	Timeout   time.Duration
	Rate      float64
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.Addr, "addr", ":5808", "listen address")
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.StringVar(&cfg.Setting, "config", "", "default search setting (.yaml / .json)")
	flag.IntVar(&cfg.MaxRoster, "max-roster", svrcfg.DefaultMaxRoster, "max competitors per request")
	flag.DurationVar(&cfg.Timeout, "timeout", svrcfg.DefaultTimeout, "search deadline per request")
	flag.Float64Var(&cfg.Rate, "rate", 0, "max /v1 requests per second (0 = unlimited)")

	flag.Parse()

	log, _ := logger.NewAsync(4096, logger.ParseMode(cfg.LogMode))

	set := spec.Default()
	if cfg.Setting != "" {
		s, err := spec.GetSearchSettingByFS(os.DirFS(filepath.Dir(cfg.Setting)), filepath.Base(cfg.Setting))
		if err != nil {
			return nil, err
		}
		set = s
	}
	p, err := flexcat.New(set, log)
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:         log,
		Addr:        cfg.Addr,
		Partitioner: p,
		MaxRoster:   cfg.MaxRoster,
		Timeout:     cfg.Timeout,
		RateLimit:   cfg.Rate,
	}
	return sCfg, nil
}
