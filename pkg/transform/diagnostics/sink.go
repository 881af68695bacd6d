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

package diagnostics

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/transformdiag/pkg/logger"
	"github.com/united-manufacturing-hub/transformdiag/pkg/sentry"
)

// ReportSink receives the combined diagnostic report for one target. A flush
// makes exactly one Report call when at least one problem was recorded, with
// the unique problem lines in first-seen order.
type ReportSink interface {
	Report(targetIdentity string, problems []string)
}

// zapSink is the default sink. It writes the whole report as a single warning
// record through a per-target named logger.
type zapSink struct{}

func (zapSink) Report(targetIdentity string, problems []string) {
	var sb strings.Builder
	for _, problem := range problems {
		sb.WriteString("\t\t")
		sb.WriteString(problem)
		sb.WriteByte('\n')
	}

	logger.For("transform:"+targetIdentity).Warnf(
		"There were some problems during transformation process for target host: '%s' \nProblems found: \n%s",
		targetIdentity, sb.String())
}

// transformationReport is the JSON document written by JSONSink, one per
// non-empty flush.
type transformationReport struct {
	EmittedAt time.Time `json:"emittedAt"`
	Target    string    `json:"target"`
	Problems  []string  `json:"problems"`
}

// JSONSink writes one JSON document per report to an io.Writer, for
// machine-readable capture of transformation reports. Safe for concurrent
// reports from multiple aggregators.
type JSONSink struct {
	w   io.Writer
	log *zap.SugaredLogger
	mu  sync.Mutex
}

// NewJSONSink creates a sink writing newline-delimited JSON reports to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{
		w:   w,
		log: logger.For("transform:json-sink"),
	}
}

func (s *JSONSink) Report(targetIdentity string, problems []string) {
	report := transformationReport{
		EmittedAt: time.Now().UTC(),
		Target:    targetIdentity,
		Problems:  problems,
	}

	data, err := json.Marshal(report)
	if err != nil {
		sentry.ReportIssuef(sentry.IssueTypeError, s.log, "Failed to encode transformation report for target %s: %w", targetIdentity, err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(append(data, '\n')); err != nil {
		sentry.ReportIssuef(sentry.IssueTypeError, s.log, "Failed to write transformation report for target %s: %w", targetIdentity, err)
	}
}
