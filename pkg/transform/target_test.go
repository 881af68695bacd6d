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

package transform_test

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
)

var _ = Describe("Target", func() {
	var target *transform.Target

	BeforeEach(func() {
		target = transform.NewTarget("secondary", semver.MustParse("1.0"))
	})

	It("should expose its identity and core version", func() {
		Expect(target.HostIdentity()).To(Equal("secondary"))
		Expect(target.CoreVersion().Original()).To(Equal("1.0"))
	})

	It("should return nil for an unregistered subsystem", func() {
		Expect(target.SubsystemVersion("logging")).To(BeNil())
	})

	It("should return the registered subsystem version", func() {
		target.SetSubsystemVersion("logging", semver.MustParse("2.1"))
		Expect(target.SubsystemVersion("logging").Original()).To(Equal("2.1"))
	})

	It("should allow updating a subsystem version after registration", func() {
		target.SetSubsystemVersion("logging", semver.MustParse("2.0"))
		target.SetSubsystemVersion("logging", semver.MustParse("2.1"))
		Expect(target.SubsystemVersion("logging").Original()).To(Equal("2.1"))
	})

	It("should tolerate concurrent registration and lookup", func() {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(2)
			name := fmt.Sprintf("subsystem-%d", i)

			go func(name string) {
				defer wg.Done()
				defer GinkgoRecover()
				target.SetSubsystemVersion(name, semver.MustParse("1.1"))
			}(name)

			go func(name string) {
				defer wg.Done()
				defer GinkgoRecover()
				_ = target.SubsystemVersion(name)
			}(name)
		}
		wg.Wait()

		Expect(target.SubsystemVersion("subsystem-0").Original()).To(Equal("1.1"))
	})
})
