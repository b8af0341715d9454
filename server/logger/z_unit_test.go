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

package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/zintix-labs/flexcat/server/logger"
)

func TestParseMode(t *testing.T) {
	cases := map[string]logger.LogMode{
		"ModeDev": logger.ModeDev, "prod": logger.ModeProd, "ModeProd": logger.ModeProd,
		"Silence": logger.ModeSilence, "": logger.ModeDev, "what": logger.ModeDev,
	}
	for in, want := range cases {
		if got := logger.ParseMode(in); got != want {
			t.Fatalf("%q: got %d want %d", in, got, want)
		}
	}
}

func TestSilenceDisablesEverything(t *testing.T) {
	log := logger.NewDefaultLogger(logger.ModeSilence)
	if log.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("silence should not enable error")
	}
}

func TestAsyncDrainsOnClose(t *testing.T) {
	var buf bytes.Buffer
	ah := logger.NewAsyncHandler(slog.NewTextHandler(&buf, nil), 64)
	log := slog.New(ah).With(slog.String("svc", "flexcat"))
	for i := 0; i < 10; i++ {
		log.Info("suggest.done", slog.Int("i", i))
	}
	if dropped := ah.Close(); dropped != 0 {
		t.Fatalf("dropped = %d", dropped)
	}
	if n := strings.Count(buf.String(), "suggest.done"); n != 10 {
		t.Fatalf("lines = %d", n)
	}
	if !strings.Contains(buf.String(), "svc=flexcat") {
		t.Fatalf("attrs lost: %s", buf.String())
	}

	log.Info("after close")
	if ah.Dropped() != 1 || ah.Close() != 1 {
		t.Fatalf("records after Close should be counted as dropped")
	}
}

func TestWriterLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.NewWriterLogger(logger.ModeProd, &buf).Debug("hidden")
	logger.NewWriterLogger(logger.ModeProd, &buf).Info("shown", slog.Int("n", 5))
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, `"n":5`) {
		t.Fatalf("json log: %s", out)
	}
}
