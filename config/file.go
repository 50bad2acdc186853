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

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dirpx.dev/vroute/apis"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. VROUTE_CUTOFF.
	EnvPrefix = "VROUTE"

	keyCutoff        = "cutoff"
	keyMetric        = "metric"
	keyKnownVersions = "known_versions"
)

// Load builds a Config from defaults, an optional file and the environment,
// in increasing order of precedence. The file format follows its extension
// (yaml, toml or json). An empty path skips the file layer.
func Load(path string) (apis.Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault(keyCutoff, def.Cutoff)
	v.SetDefault(keyMetric, def.Metric)
	v.SetDefault(keyKnownVersions, versionStrings(def.KnownVersions))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return apis.Config{}, fmt.Errorf("vroute(config): read %s: %w", path, err)
		}
	}

	cfg := apis.Config{
		KnownVersions: parseVersions(v.GetStringSlice(keyKnownVersions)),
		Cutoff:        v.GetFloat64(keyCutoff),
		Metric:        v.GetString(keyMetric),
	}
	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

// parseVersions accepts both list values and comma separated strings,
// since environment overrides arrive as a single string.
func parseVersions(raw []string) []apis.Version {
	var out []apis.Version
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, apis.Version(part))
			}
		}
	}
	return out
}

func versionStrings(vs []apis.Version) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
