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

	"github.com/united-manufacturing-hub/expiremap/v2/pkg/expiremap"

	"github.com/united-manufacturing-hub/transformdiag/pkg/config"
	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
)

// UnknownTargetIdentity is the registry key for targets that have not
// announced a name.
const UnknownTargetIdentity = "unknown"

const (
	defaultTTL          = 24 * time.Hour
	defaultCullInterval = time.Hour
)

// aggregatorStore abstracts the identity table so session-scoped and
// process-lifetime registries can differ in lifetime semantics.
type aggregatorStore interface {
	load(identity string) (*Aggregator, bool)
	store(identity string, aggregator *Aggregator)
	all() []*Aggregator
	length() int
}

// mapStore backs a session-scoped registry. Once the session is discarded the
// store is plain garbage: no background culling, no goroutines to stop.
type mapStore map[string]*Aggregator

func (s mapStore) load(identity string) (*Aggregator, bool) {
	aggregator, ok := s[identity]

	return aggregator, ok
}

func (s mapStore) store(identity string, aggregator *Aggregator) {
	s[identity] = aggregator
}

func (s mapStore) all() []*Aggregator {
	aggregators := make([]*Aggregator, 0, len(s))
	for _, aggregator := range s {
		aggregators = append(aggregators, aggregator)
	}

	return aggregators
}

func (s mapStore) length() int {
	return len(s)
}

// expireStore backs the shared process-lifetime registry. Aggregators for
// targets not seen within the TTL are culled so the table does not grow
// without bound across sessions.
type expireStore struct {
	m *expiremap.ExpireMap[string, *Aggregator]
}

func (s expireStore) load(identity string) (*Aggregator, bool) {
	existing, ok := s.m.Load(identity)
	if !ok {
		return nil, false
	}

	// Re-set to refresh the TTL of a live aggregator.
	s.m.Set(identity, *existing)

	return *existing, true
}

func (s expireStore) store(identity string, aggregator *Aggregator) {
	s.m.Set(identity, aggregator)
}

func (s expireStore) all() []*Aggregator {
	var aggregators []*Aggregator
	s.m.Range(func(key string, value *Aggregator) bool {
		aggregators = append(aggregators, value)

		return true
	})

	return aggregators
}

func (s expireStore) length() int {
	return s.m.Length()
}

// Registry hands out exactly one Aggregator per target identity.
type Registry struct {
	store aggregatorStore
	sink  ReportSink
	mu    sync.Mutex
}

// NewRegistry creates a registry scoped to one transformation session. A nil
// sink selects the default zap-backed sink. The registry's lifetime ends
// with the owning session: discarding it discards all aggregator state, with
// no background work left behind.
func NewRegistry(sink ReportSink) *Registry {
	if sink == nil {
		sink = zapSink{}
	}

	return &Registry{
		store: mapStore{},
		sink:  sink,
	}
}

// NewSharedRegistry creates a process-lifetime registry for callers that
// keep one table across many sessions. Aggregators for targets not seen
// within cfg.TTL are culled so the table stays bounded. The backing map runs
// a background cull loop, so create a shared registry once per process, not
// per pass — and keep the TTL comfortably above the duration of a pass: a
// culled aggregator takes its unflushed queue with it.
func NewSharedRegistry(cfg config.RegistryConfig, sink ReportSink) *Registry {
	if sink == nil {
		sink = zapSink{}
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	cullInterval := cfg.CullInterval
	if cullInterval <= 0 {
		cullInterval = defaultCullInterval
	}

	return &Registry{
		store: expireStore{m: expiremap.NewEx[string, *Aggregator](cullInterval, ttl)},
		sink:  sink,
	}
}

// GetOrCreate returns the aggregator for the target's identity, creating it
// on first access. All callers racing on the same identity observe the same
// instance; the mutex makes the check-then-insert atomic.
func (r *Registry) GetOrCreate(target transform.TransformationTarget) *Aggregator {
	identity := target.HostIdentity()
	if identity == "" {
		identity = UnknownTargetIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.store.load(identity); ok {
		return existing
	}

	aggregator := newAggregator(identity, target, r.sink)
	r.store.store(identity, aggregator)

	return aggregator
}

// FlushAll flushes every live aggregator once. Intended for the session
// coordinator at the end of a transformation pass, strictly after all
// producers have finished.
func (r *Registry) FlushAll() {
	// Collect first so no lock is held while sinks run.
	r.mu.Lock()
	aggregators := r.store.all()
	r.mu.Unlock()

	for _, aggregator := range aggregators {
		aggregator.Flush()
	}
}

// Length returns the number of live aggregators.
func (r *Registry) Length() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.length()
}
