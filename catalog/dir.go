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
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultPattern matches every supported catalog file below a directory.
const DefaultPattern = "**/*.{yaml,yml,toml,json,jsonc,cbor,zst}"

// dirFile is the raw content of one catalog file below a directory.
type dirFile struct {
	// rel is the slash-separated path relative to the directory.
	rel  string
	data []byte
}

// LoadDir builds one catalog from every file below dir matching pattern
// (doublestar syntax; empty means DefaultPattern). Files are parsed
// concurrently and merged in lexical path order; families present in
// several files get the union of their members.
func LoadDir(dir, pattern string) (*Static, error) {
	files, err := readDir(dir, pattern)
	if err != nil {
		return nil, err
	}
	return parseDir(dir, files)
}

// readDir reads every file below dir matching pattern, sorted by path.
func readDir(dir, pattern string) ([]dirFile, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("vroute(catalog): glob %q: %w", pattern, err)
	}
	sort.Strings(matches)

	files := make([]dirFile, len(matches))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range matches {
		i, rel := i, rel
		g.Go(func() error {
			data, err := fs.ReadFile(fsys, rel)
			if err != nil {
				return fmt.Errorf("vroute(catalog): %w", err)
			}
			files[i] = dirFile{rel: rel, data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// parseDir decodes files concurrently and merges them in order.
func parseDir(dir string, files []dirFile) (*Static, error) {
	docs := make([]Document, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			path := filepath.Join(dir, filepath.FromSlash(f.rel))
			doc, err := Decode(FormatOf(path), f.data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := New()
	for _, doc := range docs {
		b.Merge(doc)
	}
	return b.Build()
}

// Load builds a catalog from path, which may be a file or a directory.
func Load(path string) (*Static, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("vroute(catalog): %w", err)
	}
	if info.IsDir() {
		return LoadDir(path, "")
	}
	return LoadFile(path)
}
