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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
)

var _ = Describe("PathAddress", func() {
	Describe("String", func() {
		It("should render the empty address as the tree root", func() {
			Expect(transform.NewPathAddress().String()).To(Equal("/"))
		})

		It("should render each segment in CLI notation", func() {
			address := transform.NewPathAddress(
				transform.NewPathElement("subsystem", "logging"),
				transform.NewPathElement("handler", "FILE"),
			)
			Expect(address.String()).To(Equal("/subsystem=logging/handler=FILE"))
		})
	})

	Describe("SubsystemName", func() {
		It("should return the value of the first subsystem segment", func() {
			address := transform.NewPathAddress(
				transform.NewPathElement("host", "primary"),
				transform.NewPathElement("subsystem", "logging"),
				transform.NewPathElement("subsystem", "nested"),
			)
			Expect(address.SubsystemName()).To(Equal("logging"))
		})

		It("should return an empty string for core model addresses", func() {
			address := transform.NewPathAddress(
				transform.NewPathElement("host", "primary"),
				transform.NewPathElement("server", "one"),
			)
			Expect(address.SubsystemName()).To(BeEmpty())
		})

		It("should return an empty string for the root address", func() {
			Expect(transform.NewPathAddress().SubsystemName()).To(BeEmpty())
		})
	})
})

var _ = Describe("Operation", func() {
	Describe("String", func() {
		It("should render a parameterless operation as its name", func() {
			Expect(transform.NewOperation("remove", nil).String()).To(Equal("remove"))
		})

		It("should render parameters sorted by key", func() {
			operation := transform.NewOperation("write-attribute", map[string]string{
				"value": "DEBUG",
				"name":  "level",
			})
			Expect(operation.String()).To(Equal("write-attribute{name=level, value=DEBUG}"))
		})
	})
})
