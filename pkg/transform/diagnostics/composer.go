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
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/united-manufacturing-hub/transformdiag/pkg/transform"
)

// DefaultMessage is the detail message used when a recording variant is
// called without a custom message.
const DefaultMessage = "Attributes are not understood in the target model version and this resource will need to be ignored on the target host."

// unknownVersion is rendered when a target cannot resolve a version, e.g. a
// subsystem it never announced.
const unknownVersion = "unknown"

// composeMessage renders one entry into its final single-line problem text.
//
// The template is chosen by two independent properties: whether the entry is
// operation-level or resource-level, and whether the address belongs to a
// named subsystem or to the core model. The version is resolved against the
// target at call time, which at flush is strictly after all producers have
// finished, so late-registered subsystem versions are picked up.
func composeMessage(e entry, target transform.TransformationTarget) string {
	subsystemName := e.address.SubsystemName()

	var usedVersion *semver.Version
	if subsystemName != "" {
		usedVersion = target.SubsystemVersion(subsystemName)
	} else {
		usedVersion = target.CoreVersion()
	}

	message := e.message
	if message == "" {
		message = DefaultMessage
	}

	attributeText := ""
	if len(e.attributes) > 0 {
		attributeText = "attributes [" + strings.Join(e.attributes, ", ") + "] "
	}

	if e.operation == nil {
		if subsystemName != "" {
			return fmt.Sprintf("Transforming resource %s to subsystem '%s' model version '%s' -- %s%s",
				e.address, subsystemName, versionText(usedVersion), attributeText, message)
		}

		return fmt.Sprintf("Transforming resource %s to core model version '%s' -- %s%s",
			e.address, versionText(usedVersion), attributeText, message)
	}

	if subsystemName != "" {
		return fmt.Sprintf("Transforming operation %s at resource %s to subsystem '%s' model version '%s' -- %s%s",
			e.operation, e.address, subsystemName, versionText(usedVersion), attributeText, message)
	}

	return fmt.Sprintf("Transforming operation %s at resource %s to core model version '%s' -- %s%s",
		e.operation, e.address, versionText(usedVersion), attributeText, message)
}

// versionText renders a version the way it was announced, falling back to
// "unknown" for targets that could not resolve one.
func versionText(version *semver.Version) string {
	if version == nil {
		return unknownVersion
	}

	return version.Original()
}
