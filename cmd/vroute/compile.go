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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dirpx.dev/vroute/catalog"
)

func compileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <src> <dst>",
		Short: "Compile catalog documents into a binary snapshot",
		Long: `Compile reads a catalog file or directory and writes a deterministic
CBOR snapshot to dst. A dst ending in .zst is zstd compressed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			cat, err := catalog.Load(src)
			if err != nil {
				return err
			}

			f, err := os.Create(dst)
			if err != nil {
				return fmt.Errorf("create %s: %w", dst, err)
			}
			if err := catalog.Compile(f, cat, strings.HasSuffix(dst, ".zst")); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", dst, err)
			}
			a.log.Info("catalog compiled", "src", src, "dst", dst, "releases", len(cat.Versions()))
			return nil
		},
	}
}
