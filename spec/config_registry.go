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

package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/flexcat/errs"
	"gopkg.in/yaml.v3"
)

// GetSearchSettingByYAML
// 會讀取 YAML 設定（嚴格模式：多寫/拼錯欄位就報錯）、補上預設值並執行基本檢查後回傳。
func GetSearchSettingByYAML(data []byte) (*SearchSetting, error) {
	s := &SearchSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(errs.NewCode(errs.CodeConfig, err.Error()), "failed to unmarshall yaml")
	}
	return s.init()
}

// GetSearchSettingByJSON
// 會讀取 Json 設定、補上預設值並執行基本檢查後回傳
func GetSearchSettingByJSON(data []byte) (*SearchSetting, error) {
	s := &SearchSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, errs.Wrap(errs.NewCode(errs.CodeConfig, err.Error()), "can not unmarshall json byte")
	}
	return s.init()
}

// OverlayJSON 以 base 的複本為底，只覆蓋 data 中出現的欄位（嚴格模式）。
//
// 未出現的欄位沿用 base，不會退回預設值；明確給 0 的欄位會被 Validate 擋下。
func OverlayJSON(base *SearchSetting, data []byte) (*SearchSetting, error) {
	s := Default()
	if base != nil {
		s = base.Clone()
		s.Normalize()
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, errs.Wrap(errs.NewCode(errs.CodeConfig, err.Error()), "can not overlay json setting")
	}
	if err := s.Validate(); err != nil {
		return nil, errs.Wrap(err, "search setting overlay err")
	}
	return s, nil
}

// GetSearchSettingByFS 依副檔名（.yaml/.yml/.json）從 fs.FS 讀取設定。
func GetSearchSettingByFS(src fs.FS, name string) (*SearchSetting, error) {
	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, errs.Wrap(err, "read search setting failed: "+name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return GetSearchSettingByYAML(raw)
	case ".json":
		return GetSearchSettingByJSON(raw)
	default:
		return nil, errs.Codef(errs.CodeConfig, "unsupported config format: %q", name)
	}
}

func (s *SearchSetting) init() (*SearchSetting, error) {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, errs.Wrap(err, "search setting initialized err")
	}
	return s, nil
}
