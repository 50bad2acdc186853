/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package catalog

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Compile writes s as a CBOR snapshot to w, zstd compressed when compress is
// true. Output is deterministic: the same catalog always yields the same bytes.
func Compile(w io.Writer, s *Static, compress bool) error {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return fmt.Errorf("vroute(catalog): cbor mode: %w", err)
	}
	data, err := em.Marshal(s.Document())
	if err != nil {
		return fmt.Errorf("vroute(catalog): encode: %w", err)
	}
	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("vroute(catalog): zstd: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return fmt.Errorf("vroute(catalog): zstd: %w", err)
		}
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("vroute(catalog): write snapshot: %w", err)
	}
	return nil
}
