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

package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/zintix-labs/flexcat/errs"
)

// Archive 為封存檔內容：一次執行的所有組別報表。
type Archive struct {
	Version int       `json:"version"`
	Reports []*Report `json:"reports"`
}

const archiveVersion int = 1

// Codec 封存檔壓縮格式
type Codec string

const (
	Zstd Codec = "zstd" // 預設；壓縮率較好
	LZ4  Codec = "lz4"  // 解壓較快
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// CodecFor 依副檔名選格式：.lz4 為 LZ4，其餘為 Zstd。
func CodecFor(path string) Codec {
	if strings.EqualFold(filepath.Ext(path), ".lz4") {
		return LZ4
	}
	return Zstd
}

// Save 把報表以 zstd 壓縮的 JSON 寫入 w。
func Save(w io.Writer, reports ...*Report) error {
	return SaveCodec(w, Zstd, reports...)
}

// SaveCodec 與 Save 相同，但指定壓縮格式。
func SaveCodec(w io.Writer, codec Codec, reports ...*Report) error {
	var enc io.WriteCloser
	switch codec {
	case LZ4:
		enc = lz4.NewWriter(w)
	case Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return errs.Wrap(err, "zstd writer init failed")
		}
		enc = zw
	default:
		return errs.Warnf("unknown archive codec: %q", codec)
	}
	if err := json.NewEncoder(enc).Encode(Archive{Version: archiveVersion, Reports: reports}); err != nil {
		enc.Close()
		return errs.Wrap(err, "encode archive failed")
	}
	if err := enc.Close(); err != nil {
		return errs.Wrap(err, "flush archive failed")
	}
	return nil
}

// Load 讀回 Save / SaveCodec 寫入的封存檔；格式由檔頭判斷。
func Load(r io.Reader) (*Archive, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)

	var dec io.Reader
	switch {
	case bytes.Equal(head, lz4Magic):
		dec = lz4.NewReader(br)
	case bytes.Equal(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, errs.Wrap(err, "zstd reader init failed")
		}
		defer zr.Close()
		dec = zr
	default:
		return nil, errs.NewWarn("not a flexcat archive (unknown header)")
	}

	a := &Archive{}
	if err := json.NewDecoder(dec).Decode(a); err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "decode archive failed")
	}
	if a.Version != archiveVersion {
		return nil, errs.Warnf("unsupported archive version %d", a.Version)
	}
	return a, nil
}

// SaveFile 寫入檔案（覆蓋），格式依副檔名（CodecFor）。
func SaveFile(path string, reports ...*Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create archive failed: "+path)
	}
	if err := SaveCodec(f, CodecFor(path), reports...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile 讀取檔案
func LoadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, "open archive failed: "+path)
	}
	defer f.Close()
	return Load(f)
}
