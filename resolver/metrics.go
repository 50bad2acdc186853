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

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/vroute/apis"
)

// OutcomeResolved labels successful resolutions.
const OutcomeResolved = "resolved"

// Metrics holds the resolver's Prometheus collectors.
// A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	scores   prometheus.Histogram
}

// NewMetrics creates the resolver collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vroute",
			Name:      "resolutions_total",
			Help:      "Resolve calls by outcome.",
		}, []string{"outcome"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vroute",
			Name:      "namespace_score",
			Help:      "Similarity score of the best namespace candidate.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.outcomes, m.scores} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Outcomes returns the outcome counter, labelled by OutcomeResolved or an
// apis.ErrorKind string.
func (m *Metrics) Outcomes() *prometheus.CounterVec { return m.outcomes }

// Scores returns the namespace score histogram.
func (m *Metrics) Scores() prometheus.Histogram { return m.scores }

func (m *Metrics) observe(match apis.Match, err error) {
	if m == nil {
		return
	}
	if match.Namespace != "" {
		m.scores.Observe(match.Score)
	}
	outcome := OutcomeResolved
	switch k := apis.KindOf(err); {
	case err == nil:
	case k == apis.KindNone:
		outcome = "error"
	default:
		outcome = k.String()
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
