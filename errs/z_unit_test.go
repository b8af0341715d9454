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

package errs_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/zintix-labs/flexcat/errs"
)

func TestIsMatchesByCode(t *testing.T) {
	err := errs.Codef(errs.CodeInfeasible, "category %q", "M40")
	if !errors.Is(err, errs.ErrInfeasible) {
		t.Fatalf("expected code match, got %v", err)
	}
	if errors.Is(err, errs.ErrBudget) {
		t.Fatalf("infeasible must not match budget")
	}
	if err.ErrLv != errs.Log {
		t.Fatalf("level should follow sentinel: got %s", errs.ErrLv(err.ErrLv))
	}
}

func TestWrapKeepsLevelAndCode(t *testing.T) {
	inner := errs.Wrap(errs.ErrEmptyInput, "suggest")
	outer := fmt.Errorf("cli: %w", errs.Wrap(inner, "category M40"))

	if !errors.Is(outer, errs.ErrEmptyInput) {
		t.Fatalf("wrapped chain lost code: %v", outer)
	}
	e, ok := errs.AsErr(outer)
	if !ok {
		t.Fatalf("AsErr should find *E")
	}
	if e.ErrLv != errs.Warn || e.Code != errs.CodeEmptyInput {
		t.Fatalf("unexpected level/code: %s %s", errs.ErrLv(e.ErrLv), e.Code)
	}
	if got := errs.CodeOf(outer); got != errs.CodeEmptyInput {
		t.Fatalf("CodeOf = %s", got)
	}
}

func TestWrapForeignErrorIsFatal(t *testing.T) {
	e := errs.Wrap(errors.New("disk gone"), "read roster")
	if e.ErrLv != errs.Fatal || e.Code != errs.CodeNone {
		t.Fatalf("foreign cause should be fatal without code: %s %s", errs.ErrLv(e.ErrLv), e.Code)
	}
	if errors.Is(e, errs.ErrInfeasible) {
		t.Fatalf("code-less error must not match sentinel")
	}
}

func TestCodeLessErrorsCompareByPointer(t *testing.T) {
	a := errs.NewWarn("a")
	b := errs.NewWarn("a")
	if errors.Is(a, b) {
		t.Fatalf("distinct code-less errors must not match")
	}
	if !errors.Is(a, a) {
		t.Fatalf("error must match itself")
	}
}

func TestErrorString(t *testing.T) {
	e := errs.WrapWithExtra(errs.ErrInfeasible, "no grouping", "raise max_rounds")
	s := e.Error()
	for _, want := range []string{"errlv=log", "code=infeasible", "no grouping", "extra: raise max_rounds", "cause:"} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in %q", want, s)
		}
	}
	if s := errs.NewFatal("boom").Error(); strings.Contains(s, "code=") {
		t.Fatalf("code-less error should not print code: %q", s)
	}
}
