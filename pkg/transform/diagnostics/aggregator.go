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
	"sync"

	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/transformdiag/pkg/logger"
	"github.com/united-manufacturing-hub/transformdiag/pkg/metrics"
	"github.com/united-manufacturing-hub/transformdiag/pkg/sentry"
	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
)

// Aggregator queues transformation warnings for one target and reports them
// as a single combined record at the end of a transformation pass. Producers
// on any number of goroutines record warnings as they discover
// incompatibilities; the session coordinator calls Flush once all producers
// for the pass have finished.
//
// Messages are composed at flush time, not at record time, so subsystem
// versions that are only finalized late in the pass are still resolved
// correctly.
type Aggregator struct {
	target   transform.TransformationTarget
	sink     ReportSink
	log      *zap.SugaredLogger
	identity string
	queue    []entry
	mu       sync.Mutex
}

func newAggregator(identity string, target transform.TransformationTarget, sink ReportSink) *Aggregator {
	return &Aggregator{
		identity: identity,
		target:   target,
		sink:     sink,
		log:      logger.For("transform:" + identity),
	}
}

// TargetIdentity returns the registry identity this aggregator is bound to.
func (a *Aggregator) TargetIdentity() string {
	return a.identity
}

// Warn records a resource-level warning for the given attributes with the
// default detail message.
func (a *Aggregator) Warn(address transform.PathAddress, attributes ...string) {
	a.record(newEntry(address, nil, "", attributes))
}

// WarnMessage records a resource-level warning with a custom detail message.
// Attributes may be empty when the message alone describes the problem.
func (a *Aggregator) WarnMessage(address transform.PathAddress, message string, attributes ...string) {
	a.record(newEntry(address, nil, message, attributes))
}

// WarnOperation records an operation-level warning for the given attributes
// with the default detail message.
func (a *Aggregator) WarnOperation(address transform.PathAddress, operation *transform.Operation, attributes ...string) {
	a.record(newEntry(address, operation, "", attributes))
}

// WarnOperationMessage records an operation-level warning with a custom
// detail message.
func (a *Aggregator) WarnOperationMessage(address transform.PathAddress, operation *transform.Operation, message string, attributes ...string) {
	a.record(newEntry(address, operation, message, attributes))
}

// Warning composes and returns the warning text for the given inputs without
// queueing anything. Callers embed it into an immediate failure description.
// It shares the composition path with Flush, so immediate and aggregated
// reporting never diverge in wording.
func (a *Aggregator) Warning(address transform.PathAddress, operation *transform.Operation, message string, attributes ...string) string {
	e := newEntry(address, operation, message, attributes)
	a.validate(e)

	return composeMessage(e, a.target)
}

// record validates and appends one entry to the queue.
func (a *Aggregator) record(e entry) {
	a.validate(e)

	a.mu.Lock()
	a.queue = append(a.queue, e)
	a.mu.Unlock()

	metrics.IncWarningsRecorded(a.identity)
}

// validate enforces the message-or-attributes invariant. A violation is a
// defect in the producer and fails fast.
func (a *Aggregator) validate(e entry) {
	if !e.valid() {
		sentry.ReportTransformFault(a.log, a.identity, e.address.String(), errEmptyEntry)
	}
}

// Flush drains the queue, composes each entry, deduplicates identical
// rendered lines preserving first-seen order, and emits one combined report
// through the sink. A flush with an empty queue emits nothing. The queue is
// cleared, so a second flush only reports entries recorded after the first.
func (a *Aggregator) Flush() {
	a.mu.Lock()
	queue := a.queue
	a.queue = nil
	a.mu.Unlock()

	metrics.IncFlushes(a.identity)

	if len(queue) == 0 {
		return
	}

	seen := make(map[string]struct{}, len(queue))
	problems := make([]string, 0, len(queue))
	for _, e := range queue {
		line := composeMessage(e, a.target)
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		problems = append(problems, line)
	}

	a.sink.Report(a.identity, problems)
	metrics.ObserveReport(a.identity, len(problems))
}

// QueueLength returns the number of entries currently queued.
func (a *Aggregator) QueueLength() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.queue)
}
