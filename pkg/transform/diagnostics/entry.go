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
	"errors"
	"sort"

	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
)

// errEmptyEntry marks a diagnostic entry built with neither a message nor
// attributes. This is a defect in the calling code, not a runtime condition.
var errEmptyEntry = errors.New("a diagnostic entry requires a message or at least one attribute")

// entry is one recorded incompatibility. Entries stay structured until flush
// so that message composition sees the final state of the target's versions.
type entry struct {
	operation  *transform.Operation
	message    string
	address    transform.PathAddress
	attributes []string
}

// newEntry normalizes the four recording variants into the single entry
// shape. Attributes are sorted and deduplicated up front so rendering is
// deterministic. The caller validates the entry before queueing it.
func newEntry(address transform.PathAddress, operation *transform.Operation, message string, attributes []string) entry {
	return entry{
		address:    address,
		operation:  operation,
		message:    message,
		attributes: normalizeAttributes(attributes),
	}
}

// valid reports whether the entry satisfies the message-or-attributes invariant.
func (e entry) valid() bool {
	return e.message != "" || len(e.attributes) > 0
}

// normalizeAttributes returns a sorted copy of attributes with duplicates and
// empty names removed.
func normalizeAttributes(attributes []string) []string {
	if len(attributes) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(attributes))
	for _, attribute := range attributes {
		if attribute == "" {
			continue
		}
		set[attribute] = struct{}{}
	}

	if len(set) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(set))
	for attribute := range set {
		normalized = append(normalized, attribute)
	}
	sort.Strings(normalized)

	return normalized
}
