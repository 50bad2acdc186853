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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dirpx.dev/vroute"
	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/builder"
	"dirpx.dev/vroute/catalog"
	"dirpx.dev/vroute/config"
	"dirpx.dev/vroute/resolver"
)

const appName = "vroute"

var errNoCatalog = errors.New("no catalog given (use --catalog)")

// app carries global flag values and the state derived from them.
type app struct {
	// outMu keeps result blocks whole when the watcher reports concurrently.
	outMu  sync.Mutex
	out    io.Writer
	errOut io.Writer

	configPath    string
	catalogPath   string
	logLevel      string
	cutoff        float64
	metric        string
	knownVersions []string

	cfg apis.Config
	log *log.Logger
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Resolve loose API call descriptions against a versioned catalog",
		Long: TitleStyle.Render(appName) + LabelStyle.Render(" - versioned API call resolution") + `

vroute maps a release version, a family hint and a method hint to the
exact namespace and member of a versioned API client. Family hints are
matched by similarity, method hints by substring.

` + LabelStyle.Render("Examples:") + `
  vroute resolve 2.3.7.6 "user role" add_role --catalog api.yaml
  vroute inspect 2.3.7.6 sites --catalog catalogs/
  vroute compile catalogs/ api.cbor.zst`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (YAML, TOML or JSON)")
	pf.StringVar(&a.catalogPath, "catalog", "", "catalog file or directory")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.Float64Var(&a.cutoff, "cutoff", config.DefaultCutoff, "minimum family similarity in [0,1]")
	pf.StringVar(&a.metric, "metric", config.DefaultMetric, "similarity metric (ratio, levenshtein, jaro-winkler)")
	pf.StringSliceVar(&a.knownVersions, "known-version", nil, "accepted release version (repeatable)")

	cmd.AddCommand(
		resolveCmd(a),
		inspectCmd(a),
		namespacesCmd(a),
		versionsCmd(a),
		compileCmd(a),
		watchCmd(a),
		versionCmd(a),
	)
	return cmd
}

// init builds the logger and the effective configuration: file and
// environment first, then explicitly set flags.
func (a *app) init(cmd *cobra.Command) error {
	level, err := log.ParseLevel(strings.ToLower(a.logLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	a.log = log.NewWithOptions(a.errOut, log.Options{Prefix: appName, Level: level})

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("cutoff") {
		cfg.Cutoff = a.cutoff
	}
	if flags.Changed("metric") {
		cfg.Metric = a.metric
	}
	if flags.Changed("known-version") {
		cfg.KnownVersions = cfg.KnownVersions[:0:0]
		for _, v := range a.knownVersions {
			cfg.KnownVersions = append(cfg.KnownVersions, apis.Version(strings.TrimSpace(v)))
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.log.Debug("configuration loaded", "cutoff", cfg.Cutoff, "metric", cfg.Metric, "known", cfg.KnownVersions)
	return nil
}

// loadCatalog reads the --catalog file or directory.
func (a *app) loadCatalog() (*catalog.Static, error) {
	if a.catalogPath == "" {
		return nil, errNoCatalog
	}
	cat, err := catalog.Load(a.catalogPath)
	if err != nil {
		return nil, err
	}
	a.log.Debug("catalog loaded", "path", a.catalogPath, "releases", len(cat.Versions()))
	return cat, nil
}

// router builds a Router over cat with the effective configuration.
func (a *app) router(cat apis.Catalog, m *resolver.Metrics) (*vroute.Router, error) {
	return vroute.New(cat,
		vroute.WithConfig(a.cfg),
		vroute.WithBuilder(builder.New(builder.WithLogger(a.log), builder.WithMetrics(m))),
	)
}

func resolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <version> <family> <method>",
		Short: "Resolve a call to its namespace path and member",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			r, err := a.router(cat, nil)
			if err != nil {
				return err
			}
			return a.resolve(cmd.Context(), r, request(args))
		},
	}
}

func request(args []string) apis.Request {
	return apis.Request{Version: apis.Version(args[0]), FamilyHint: args[1], MethodHint: args[2]}
}

// resolve runs req through r and prints the outcome.
func (a *app) resolve(ctx context.Context, r apis.Resolver, req apis.Request) error {
	res, err := r.Resolve(ctx, req)
	if err != nil {
		return withExitCode(err)
	}
	var b strings.Builder
	fmt.Fprintln(&b, TitleStyle.Render("Resolved"))
	field(&b, "path", ValueStyle.Render(res.Path.String()))
	field(&b, "member", ValueStyle.Render(res.Member))
	a.match(&b, res.Match)

	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, err = io.WriteString(a.out, b.String())
	return err
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render(fmt.Sprintf("%-9s", label)), value)
}

// match prints the namespace score and how close the runner-up came.
func (a *app) match(w io.Writer, m apis.Match) {
	score := fmt.Sprintf("%.3f", m.Score)
	if m.Score < 1 && m.Score-a.cfg.Cutoff < 0.1 {
		score = WarningStyle.Render(score)
	}
	field(w, "score", score)
	if m.RunnerUp != "" {
		field(w, "runner-up", fmt.Sprintf("%s %.3f", m.RunnerUp, m.RunnerUpScore))
	}
	field(w, "families", fmt.Sprint(m.Candidates))
}

func inspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <version> <family>",
		Short: "List the members of the family matching a hint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			r, err := a.router(cat, nil)
			if err != nil {
				return err
			}
			in, err := r.Inspect(cmd.Context(), apis.Version(args[0]), args[1])
			if err != nil {
				return withExitCode(err)
			}
			fmt.Fprintln(a.out, TitleStyle.Render(in.Path.String()))
			a.match(a.out, in.Match)
			for _, m := range in.Members {
				fmt.Fprintln(a.out, "  "+m.Name)
			}
			return nil
		},
	}
}

func namespacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces <version>",
		Short: "List the families of a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			v := apis.Version(args[0])
			names, err := cat.Namespaces(cmd.Context(), v)
			if err != nil {
				return withExitCode(&apis.CatalogAccessError{Op: "namespaces", Version: v, Err: err})
			}
			for _, n := range names {
				fmt.Fprintln(a.out, n)
			}
			return nil
		},
	}
}

func versionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List known release versions and whether the catalog has them",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			inCatalog := map[apis.Version]bool{}
			if a.catalogPath != "" {
				cat, err := a.loadCatalog()
				if err != nil {
					return err
				}
				for _, v := range cat.Versions() {
					inCatalog[v] = true
				}
			}
			for _, v := range a.cfg.KnownVersions {
				line := string(v)
				if inCatalog[v] {
					line += " " + ValueStyle.Render("(catalog)")
				}
				fmt.Fprintln(a.out, line)
			}
			return nil
		},
	}
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "%s version %s (commit: %s)\n", appName, Version, Commit)
		},
	}
}
