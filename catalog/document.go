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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension names no known format.
var ErrUnsupportedFormat = errors.New("vroute(catalog): unsupported catalog format")

// Document is the serialized form of a catalog:
//
//	releases:
//	  "2.3.7.6":
//	    user_and_roles: [add_role_ap_i, get_roles_ap_i]
type Document struct {
	Releases map[string]map[string][]string `yaml:"releases" toml:"releases" json:"releases" cbor:"releases"`
}

// Format identifies a catalog encoding.
type Format string

const (
	// FormatYAML is YAML, from .yaml and .yml files.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML, from .toml files.
	FormatTOML Format = "toml"
	// FormatJSON is JSON with comments and trailing commas allowed, from
	// .json and .jsonc files.
	FormatJSON Format = "json"
	// FormatCBOR is a compiled snapshot, from .cbor files.
	FormatCBOR Format = "cbor"
	// FormatCBORZstd is a zstd-compressed compiled snapshot, from .cbor.zst
	// and .zst files.
	FormatCBORZstd Format = "cbor.zst"

	formatUndefined Format = ""
)

// FormatOf derives the format from a file name.
func FormatOf(name string) Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".cbor.zst"), strings.HasSuffix(lower, ".zst"):
		return FormatCBORZstd
	case strings.HasSuffix(lower, ".cbor"):
		return FormatCBOR
	}
	switch filepath.Ext(lower) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return formatUndefined
	}
}

// Decode parses data in format f.
func Decode(f Format, data []byte) (Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatJSON:
		// JSON catalogs may carry comments and trailing commas.
		err = json.Unmarshal(jsonc.ToJSON(data), &doc)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &doc)
	case FormatCBORZstd:
		var raw []byte
		raw, err = decompress(data)
		if err == nil {
			err = cbor.Unmarshal(raw, &doc)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return Document{}, fmt.Errorf("vroute(catalog): decode %s: %w", f, err)
	}
	return doc, nil
}

// Parse decodes data using the format implied by name and builds a catalog.
func Parse(name string, data []byte) (*Static, error) {
	f := FormatOf(name)
	if f == formatUndefined {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	doc, err := Decode(f, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return New().Merge(doc).Build()
}

// LoadFile reads and builds the catalog stored at path.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vroute(catalog): %w", err)
	}
	return Parse(path, data)
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
