// Copyright 2025 UMH Systems GmbH
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

package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/united-manufacturing-hub/transformdiag/pkg/logger"
	"github.com/united-manufacturing-hub/transformdiag/pkg/sentry"
)

var (
	// Namespace and subsystem for all metrics.
	namespace = "umh"
	subsystem = "transformdiag"

	// Recorded diagnostic entries per target.
	warningsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "warnings_recorded_total",
			Help:      "Total number of transformation warnings recorded by target",
		},
		[]string{"target"},
	)

	// Flush calls per target, including flushes with an empty queue.
	flushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "flushes_total",
			Help:      "Total number of flush calls by target",
		},
		[]string{"target"},
	)

	// Emitted reports per target (only non-empty flushes produce a report).
	reportsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reports_emitted_total",
			Help:      "Total number of aggregated diagnostic reports emitted by target",
		},
		[]string{"target"},
	)

	// Distinct problem lines per emitted report.
	reportProblems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "report_problem_lines",
			Help:      "Number of unique problem lines per emitted report",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250},
		},
		[]string{"target"},
	)
)

// IncWarningsRecorded increments the recorded-warnings counter for a target.
func IncWarningsRecorded(target string) {
	warningsRecorded.WithLabelValues(target).Inc()
}

// IncFlushes increments the flush counter for a target.
func IncFlushes(target string) {
	flushesTotal.WithLabelValues(target).Inc()
}

// ObserveReport records one emitted report and its number of unique problem lines.
func ObserveReport(target string, problemLines int) {
	reportsEmitted.WithLabelValues(target).Inc()
	reportProblems.WithLabelValues(target).Observe(float64(problemLines))
}

// SetupMetricsEndpoint starts an HTTP server to expose metrics
// This should be called once at application startup.
func SetupMetricsEndpoint(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sentry.ReportIssue(err, sentry.IssueTypeFatal, logger.For("metrics"))
		}
	}()

	return server
}
