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
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"dirpx.dev/vroute"
	"dirpx.dev/vroute/apis"
	"dirpx.dev/vroute/catalog"
	"dirpx.dev/vroute/resolver"
)

func watchCmd(a *app) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch <version> <family> <method>",
		Short: "Resolve a call and re-resolve whenever the catalog changes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), metricsAddr, args)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

func (a *app) watch(ctx context.Context, metricsAddr string, args []string) error {
	if a.catalogPath == "" {
		return errNoCatalog
	}
	req := request(args)

	reg := prometheus.NewRegistry()
	m, err := resolver.NewMetrics(reg)
	if err != nil {
		return err
	}

	var rt atomic.Pointer[vroute.Router]
	w, err := catalog.Watch(ctx, a.catalogPath,
		catalog.WithLogger(a.log),
		catalog.WithNotify(func(*catalog.Static) {
			if r := rt.Load(); r != nil {
				a.report(ctx, r, req)
			}
		}),
	)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	r, err := a.router(w, m)
	if err != nil {
		return err
	}
	rt.Store(r)
	a.report(ctx, r, req)

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("metrics server failed", "addr", metricsAddr, "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.log.Info("serving metrics", "addr", metricsAddr)
	}

	<-ctx.Done()
	return nil
}

// report resolves req and prints the outcome; failures are logged and
// watching continues.
func (a *app) report(ctx context.Context, r *vroute.Router, req apis.Request) {
	if err := a.resolve(ctx, r, req); err != nil {
		a.log.Error("resolve failed", "version", req.Version, "family", req.FamilyHint,
			"method", req.MethodHint, "err", err)
	}
}
