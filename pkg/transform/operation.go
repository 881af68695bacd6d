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

import (
	"sort"
	"strings"
)

// Operation describes one management operation shipped to a target, e.g.
// write-attribute with its parameters. Diagnostic entries reference it when a
// problem is operation-level rather than resource-level.
type Operation struct {
	Params map[string]string
	Name   string
}

// NewOperation creates an operation with the given name and parameters.
func NewOperation(name string, params map[string]string) *Operation {
	return &Operation{Name: name, Params: params}
}

// String renders the operation name with its parameters sorted by key, e.g.
// write-attribute{name=level, value=DEBUG}. Sorting keeps the rendering
// deterministic so duplicate operations collapse at flush.
func (o *Operation) String() string {
	if len(o.Params) == 0 {
		return o.Name
	}

	keys := make([]string, 0, len(o.Params))
	for key := range o.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(o.Name)
	sb.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(o.Params[key])
	}
	sb.WriteByte('}')

	return sb.String()
}
