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
	"sync"

	"github.com/Masterminds/semver/v3"
)

// TransformationTarget describes a remote peer participating in a
// transformation session: its identity, the version of the shared core model
// it understands, and the versions of its individually versioned subsystems.
//
// Subsystem versions may still be negotiated while transformation work is in
// flight, so implementations must tolerate SubsystemVersion being called at
// any time and return the current state.
type TransformationTarget interface {
	// HostIdentity returns the unique name of the target. May be "" when the
	// target has not announced a name yet.
	HostIdentity() string

	// CoreVersion returns the version of the shared core model.
	CoreVersion() *semver.Version

	// SubsystemVersion returns the model version of the named subsystem, or
	// nil when the subsystem is unknown to this target.
	SubsystemVersion(name string) *semver.Version
}

// Target is a thread-safe TransformationTarget. Subsystem versions can be
// registered after creation, which matters because diagnostic messages are
// composed at flush time against the then-current versions.
type Target struct {
	subsystems  map[string]*semver.Version
	coreVersion *semver.Version
	identity    string
	mu          sync.RWMutex
}

// NewTarget creates a target with the given identity and core model version.
func NewTarget(identity string, coreVersion *semver.Version) *Target {
	return &Target{
		identity:    identity,
		coreVersion: coreVersion,
		subsystems:  make(map[string]*semver.Version),
	}
}

// HostIdentity returns the unique name of the target.
func (t *Target) HostIdentity() string {
	return t.identity
}

// CoreVersion returns the version of the shared core model.
func (t *Target) CoreVersion() *semver.Version {
	return t.coreVersion
}

// SubsystemVersion returns the model version of the named subsystem, or nil
// when the subsystem has not been registered.
func (t *Target) SubsystemVersion(name string) *semver.Version {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.subsystems[name]
}

// SetSubsystemVersion registers or updates the model version of a subsystem.
func (t *Target) SetSubsystemVersion(name string, version *semver.Version) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.subsystems[name] = version
}
