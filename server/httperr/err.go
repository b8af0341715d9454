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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/flexcat/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel               → 504/408（請求生命週期問題）
//   - infeasible / budget_exceeded     → 422（名單合法，但在目前參數下找不到分組）
//   - errs.Warn                        → 400（請求/參數問題，含空名單、未排序、設定錯誤）
//   - errs.Fatal                       → 500（系統/不可恢復問題）
//
// 注意：本函數屬於 HTTP 邊界層，因此放在 server/*（而不是 core errs）。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout // 504
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout // 408
	case errors.Is(err, errs.ErrInfeasible), errors.Is(err, errs.ErrBudget):
		return http.StatusUnprocessableEntity // 422
	}

	var e *errs.E
	if errors.As(err, &e) {
		switch e.ErrLv {
		case errs.Warn:
			return http.StatusBadRequest // 400
		case errs.Log:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// Body 錯誤回應
type Body struct {
	Status int    `json:"status"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error"`
	Hint   string `json:"hint,omitempty"`
}

// Errs 寫回 JSON 錯誤（status + code + message）。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	b := Body{Status: status, Error: err.Error()}
	if e, ok := errs.AsErr(err); ok {
		b.Code = e.Code.String()
		b.Hint = hint(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(b)
}

// 取錯誤鏈上第一個 Extra
func hint(err error) string {
	for err != nil {
		if e, ok := err.(*errs.E); ok && e.Extra != "" {
			return e.Extra
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// Log 依狀態碼決定 log 等級：4xx 中的逾時類為 warn、5xx 為 error，其餘不記錄（access log 已涵蓋）。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	if (status == 408) || (status == 409) || (status == 429) {
		log.Warn(msg, slog.Any("err", err))
	} else if (status >= 500) && (status < 600) {
		log.Error(msg, slog.Any("err", err))
	}
}
