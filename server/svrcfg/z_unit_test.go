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

package svrcfg_test

import (
	"testing"
	"time"

	"github.com/zintix-labs/flexcat"
	"github.com/zintix-labs/flexcat/server/logger"
	"github.com/zintix-labs/flexcat/server/svrcfg"
)

func TestVaildDefaults(t *testing.T) {
	p, err := flexcat.New(nil, nil)
	if err != nil {
		t.Fatalf("partitioner: %v", err)
	}
	sc := &svrcfg.SvrCfg{Log: logger.NewDefaultLogger(logger.ModeSilence), Partitioner: p, MaxRoster: 1 << 30, Timeout: time.Hour, RateLimit: 2.5}
	if err := sc.Vaild(); err != nil {
		t.Fatalf("vaild: %v", err)
	}
	if sc.Metrics == nil || sc.MaxRoster != 20000 || sc.Timeout != time.Minute || sc.Burst != 3 {
		t.Fatalf("normalized: %+v", sc)
	}

	sc = &svrcfg.SvrCfg{Log: logger.NewDefaultLogger(logger.ModeSilence), Partitioner: p}
	if err := sc.Vaild(); err != nil {
		t.Fatalf("vaild: %v", err)
	}
	if sc.MaxRoster != svrcfg.DefaultMaxRoster || sc.Timeout != svrcfg.DefaultTimeout || sc.RateLimit != 0 {
		t.Fatalf("defaults: %+v", sc)
	}
}

func TestVaildRequiresPartitioner(t *testing.T) {
	sc := &svrcfg.SvrCfg{Log: logger.NewDefaultLogger(logger.ModeSilence)}
	if err := sc.Vaild(); err == nil {
		t.Fatalf("missing partitioner should fail")
	}
}
