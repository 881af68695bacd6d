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

package diagnostics_test

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Masterminds/semver/v3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sync/errgroup"

	"github.com/united-manufacturing-hub/transformdiag/pkg/config"
	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
	"github.com/united-manufacturing-hub/transformdiag/pkg/transform/diagnostics"
)

var _ = Describe("Registry", func() {
	var (
		sink     *captureSink
		registry *diagnostics.Registry
	)

	BeforeEach(func() {
		sink = &captureSink{}
		registry = diagnostics.NewRegistry(sink)
	})

	Describe("GetOrCreate", func() {
		It("should return the same aggregator for the same identity", func() {
			target := transform.NewTarget("secondary", semver.MustParse("1.0"))
			first := registry.GetOrCreate(target)
			second := registry.GetOrCreate(target)

			Expect(first).To(BeIdenticalTo(second))
			Expect(registry.Length()).To(Equal(1))
		})

		It("should return distinct aggregators for distinct identities", func() {
			first := registry.GetOrCreate(transform.NewTarget("one", semver.MustParse("1.0")))
			second := registry.GetOrCreate(transform.NewTarget("two", semver.MustParse("1.0")))

			Expect(first).NotTo(BeIdenticalTo(second))
			Expect(registry.Length()).To(Equal(2))
		})

		It("should map unnamed targets to the unknown sentinel", func() {
			aggregator := registry.GetOrCreate(transform.NewTarget("", semver.MustParse("1.0")))
			Expect(aggregator.TargetIdentity()).To(Equal(diagnostics.UnknownTargetIdentity))
		})

		It("should hand all concurrent callers the same instance without losing entries", func() {
			const producers = 32

			target := transform.NewTarget("secondary", semver.MustParse("1.0"))

			var (
				mu          sync.Mutex
				aggregators = make(map[*diagnostics.Aggregator]struct{})
			)

			var group errgroup.Group
			for i := 0; i < producers; i++ {
				address := transform.NewPathAddress(
					transform.NewPathElement("server", fmt.Sprintf("server-%d", i)),
				)

				group.Go(func() error {
					aggregator := registry.GetOrCreate(target)

					mu.Lock()
					aggregators[aggregator] = struct{}{}
					mu.Unlock()

					aggregator.Warn(address, "max-threads")

					return nil
				})
			}
			Expect(group.Wait()).To(Succeed())

			Expect(aggregators).To(HaveLen(1))
			Expect(registry.Length()).To(Equal(1))

			registry.FlushAll()

			calls := sink.calls()
			Expect(calls).To(HaveLen(1))
			Expect(calls[0].problems).To(HaveLen(producers))
		})
	})

	Describe("FlushAll", func() {
		It("should flush every aggregator exactly once", func() {
			one := registry.GetOrCreate(transform.NewTarget("one", semver.MustParse("1.0")))
			two := registry.GetOrCreate(transform.NewTarget("two", semver.MustParse("1.0")))

			address := transform.NewPathAddress(transform.NewPathElement("subsystem", "logging"))
			one.Warn(address, "level")
			two.Warn(address, "level")

			registry.FlushAll()

			calls := sink.calls()
			Expect(calls).To(HaveLen(2))

			targets := []string{calls[0].target, calls[1].target}
			Expect(targets).To(ConsistOf("one", "two"))
		})

		It("should skip aggregators with an empty queue", func() {
			registry.GetOrCreate(transform.NewTarget("idle", semver.MustParse("1.0")))
			registry.FlushAll()

			Expect(sink.calls()).To(BeEmpty())
		})
	})

	Describe("lifetime", func() {
		It("should leave no goroutines behind when session-scoped registries are discarded", func() {
			before := runtime.NumGoroutine()

			for i := 0; i < 100; i++ {
				scoped := diagnostics.NewRegistry(sink)
				scoped.GetOrCreate(transform.NewTarget(fmt.Sprintf("host-%d", i), semver.MustParse("1.0")))
			}

			Eventually(runtime.NumGoroutine).Should(BeNumerically("<=", before+2))
		})
	})
})

var _ = Describe("SharedRegistry", func() {
	var (
		sink   *captureSink
		shared *diagnostics.Registry
	)

	BeforeEach(func() {
		sink = &captureSink{}
		shared = diagnostics.NewSharedRegistry(config.RegistryConfig{}, sink)
	})

	It("should hand out the same aggregator for an identity across sessions", func() {
		target := transform.NewTarget("secondary", semver.MustParse("1.0"))

		first := shared.GetOrCreate(target)
		second := shared.GetOrCreate(target)

		Expect(first).To(BeIdenticalTo(second))
		Expect(shared.Length()).To(Equal(1))
	})

	It("should flush aggregators created through it", func() {
		aggregator := shared.GetOrCreate(transform.NewTarget("secondary", semver.MustParse("1.0")))
		aggregator.Warn(transform.NewPathAddress(transform.NewPathElement("subsystem", "logging")), "level")

		shared.FlushAll()

		Expect(sink.calls()).To(HaveLen(1))
	})
})
