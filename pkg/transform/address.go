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

package transform

import "strings"

// SubsystemKey is the path key that marks a subsystem boundary in the
// management model tree. Resources below a subsystem element are versioned by
// that subsystem, not by the core model.
const SubsystemKey = "subsystem"

// PathElement is one key=value segment of a resource address.
type PathElement struct {
	Key   string
	Value string
}

// NewPathElement creates a single address segment.
func NewPathElement(key, value string) PathElement {
	return PathElement{Key: key, Value: value}
}

// PathAddress is the ordered path of a resource in the management model tree.
type PathAddress []PathElement

// NewPathAddress creates an address from the given segments.
func NewPathAddress(elements ...PathElement) PathAddress {
	return PathAddress(elements)
}

// String renders the address in CLI notation, e.g. /subsystem=logging/handler=FILE.
// The empty address renders as the tree root "/".
func (a PathAddress) String() string {
	if len(a) == 0 {
		return "/"
	}

	var sb strings.Builder
	for _, element := range a {
		sb.WriteByte('/')
		sb.WriteString(element.Key)
		sb.WriteByte('=')
		sb.WriteString(element.Value)
	}

	return sb.String()
}

// SubsystemName returns the value of the first subsystem element in the
// address, or "" when the address belongs to the core model.
func (a PathAddress) SubsystemName() string {
	for _, element := range a {
		if element.Key == SubsystemKey {
			return element.Value
		}
	}

	return ""
}
