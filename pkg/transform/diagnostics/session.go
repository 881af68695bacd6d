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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/transformdiag/pkg/config"
	"github.com/united-manufacturing-hub/transformdiag/pkg/logger"
	"github.com/united-manufacturing-hub/transformdiag/pkg/metrics"
	"github.com/united-manufacturing-hub/transformdiag/pkg/sentry"
	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
)

// Sessions come and go, but the metrics endpoint and sentry are
// process-level and initialized at most once.
var (
	metricsOnce sync.Once
	sentryOnce  sync.Once
)

// Session scopes a registry to one transformation pass. The coordinator
// creates a session at pass start, hands aggregators to its workers, and
// flushes everything once the workers are done. Discarding the session
// discards all per-target state with it; the session registry never culls an
// aggregator mid-pass and leaves no background work behind.
type Session struct {
	started  time.Time
	registry *Registry
	log      *zap.SugaredLogger
	id       uuid.UUID
}

// NewSession creates a session with its own registry. A nil sink selects the
// default zap-backed sink.
func NewSession(cfg config.Config, sink ReportSink) *Session {
	if cfg.Sentry.DSN != "" {
		sentryOnce.Do(func() {
			sentry.InitSentry(cfg.Sentry.DSN, cfg.Sentry.AppVersion, cfg.Sentry.DebounceErrors)
		})
	}

	if cfg.Metrics.Enabled {
		metricsOnce.Do(func() {
			metrics.SetupMetricsEndpoint(cfg.Metrics.Address)
		})
	}

	id := uuid.New()

	return &Session{
		id:       id,
		started:  time.Now(),
		registry: NewRegistry(sink),
		log:      logger.For("transform-session:" + id.String()),
	}
}

// ID returns the unique identifier of this session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Started returns when the session was created.
func (s *Session) Started() time.Time {
	return s.started
}

// Registry returns the session-scoped aggregator registry.
func (s *Session) Registry() *Registry {
	return s.registry
}

// LoggerFor returns the aggregator for the given target, creating it on
// first access.
func (s *Session) LoggerFor(target transform.TransformationTarget) *Aggregator {
	return s.registry.GetOrCreate(target)
}

// End flushes every aggregator of the session. The caller must not invoke it
// while transformation workers are still recording.
func (s *Session) End() {
	s.log.Debugf("Ending transformation session after %s", time.Since(s.started))
	s.registry.FlushAll()
}
