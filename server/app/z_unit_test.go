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

package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zintix-labs/flexcat/server/app"
)

func TestCloserRunBlocksUntilShutdown(t *testing.T) {
	calls := 0
	c := app.NewCloser(func(context.Context) error {
		calls++
		return nil
	})
	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case <-done:
		t.Fatalf("Run returned before Shutdown")
	case <-time.After(20 * time.Millisecond):
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after Shutdown")
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
	// 第二次 Shutdown 不會 panic
	_ = c.Shutdown(context.Background())
}

type failing struct{ shut bool }

func (f *failing) Run() error { return errors.New("boom") }

func (f *failing) Shutdown(ctx context.Context) error {
	f.shut = true
	return nil
}

func TestAppStopsOnComponentError(t *testing.T) {
	f := &failing{}
	c := app.NewCloser(nil)
	err := app.NewWith(f, c).Run()
	if err == nil || err.Error() != "boom" {
		t.Fatalf("err = %v", err)
	}
	if !f.shut {
		t.Fatalf("failing component was not shut down")
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("closer: %v", err)
	}
}
