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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Code : 錯誤種類。ErrLevel 說明「多嚴重」，Code 說明「是什麼」。
//
// 邊界層（CLI / HTTP）依 Code 區分「名單本身有問題（使用錯誤）」與「找不到可行分組（可調整參數再試）」。
type Code uint8

const (
	CodeNone Code = iota
	CodeEmptyInput
	CodeInfeasible
	CodeUnsorted
	CodeBudget
	CodeConfig
	CodeNegativeWeight
)

var codeMap = map[Code]string{
	CodeNone:           "",
	CodeEmptyInput:     "empty_input",
	CodeInfeasible:     "infeasible",
	CodeUnsorted:       "unsorted_input",
	CodeBudget:         "budget_exceeded",
	CodeConfig:         "invalid_config",
	CodeNegativeWeight: "negative_weight",
}

func (c Code) String() string {
	if str, ok := codeMap[c]; ok {
		return str
	}
	return ""
}

// 哨兵錯誤：只用來比對（errors.Is），比對依據是 Code，不是指標。
var (
	ErrEmptyInput = &E{Message: "empty roster", ErrLv: Warn, Code: CodeEmptyInput}
	ErrInfeasible = &E{Message: "no feasible partition within round budget", ErrLv: Log, Code: CodeInfeasible}
	ErrUnsorted   = &E{Message: "weights are not sorted ascending", ErrLv: Warn, Code: CodeUnsorted}
	ErrBudget     = &E{Message: "search budget exceeded", ErrLv: Log, Code: CodeBudget}
	ErrConfig     = &E{Message: "invalid search setting", ErrLv: Warn, Code: CodeConfig}
	ErrNegative   = &E{Message: "weights must not be negative", ErrLv: Warn, Code: CodeNegativeWeight}
)

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 為嚴重度；Code 為錯誤種類。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Code    Code
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Code != CodeNone {
		base = fmt.Sprintf("errlv=%s code=%s %s", ErrLv(e.ErrLv), e.Code, e.Message)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// Is 讓 errors.Is(err, errs.ErrInfeasible) 以 Code 比對。
// CodeNone 的錯誤只和自己相等。
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	if e.Code == CodeNone || t.Code == CodeNone {
		return e == t
	}
	return e.Code == t.Code
}

// New 依錯誤等級與訊息建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

// NewCode 建立帶有錯誤種類的錯誤，等級沿用該種類哨兵的等級。
func NewCode(code Code, msg string) *E {
	e := &E{Message: msg, ErrLv: Fatal, Code: code}
	if s := sentinel(code); s != nil {
		e.ErrLv = s.ErrLv
	}
	return e
}

// Codef 與 NewCode 相同，但支援格式化。
func Codef(code Code, format string, a ...any) *E {
	return NewCode(code, fmt.Sprintf(format, a...))
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func Logf(format string, a ...any) *E {
	return NewLog(fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// ErrLevel / Code 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv 與 Code（保持原本嚴重度與種類）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 ErrLv 一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	code := CodeNone
	if errors.As(cause, &e) {
		errLv = e.ErrLv
		code = e.Code
	}
	r := New(errLv, msg)
	r.Code = code
	r.Cause = cause
	return r
}

// WrapWithExtra 使用給定的訊息與上下文包裝底層錯誤，規則同 Wrap。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// CodeOf 回傳錯誤鏈中第一個 *E 的 Code；非本包錯誤回傳 CodeNone。
func CodeOf(err error) Code {
	if e, ok := AsErr(err); ok {
		return e.Code
	}
	return CodeNone
}

func sentinel(code Code) *E {
	switch code {
	case CodeEmptyInput:
		return ErrEmptyInput
	case CodeInfeasible:
		return ErrInfeasible
	case CodeUnsorted:
		return ErrUnsorted
	case CodeBudget:
		return ErrBudget
	case CodeConfig:
		return ErrConfig
	case CodeNegativeWeight:
		return ErrNegative
	default:
		return nil
	}
}
