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

package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/united-manufacturing-hub/transformdiag/pkg/config"
)

var _ = Describe("Load", func() {
	var log = zap.NewNop().Sugar()

	It("should fall back to defaults when the file does not exist", func() {
		cfg, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"), log)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.DefaultConfig()))
	})

	It("should load values from the config file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		data := []byte(`
logging:
  level: DEBUG
  format: JSON
registry:
  ttl: 1h
  cullInterval: 5m
`)
		Expect(os.WriteFile(path, data, 0o600)).To(Succeed())

		cfg, err := config.Load(path, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Logging.Level).To(Equal("DEBUG"))
		Expect(cfg.Logging.Format).To(Equal("JSON"))
		Expect(cfg.Registry.TTL).To(Equal(time.Hour))
		Expect(cfg.Registry.CullInterval).To(Equal(5 * time.Minute))
	})

	It("should keep defaults for fields the file omits", func() {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte("logging:\n  level: WARN\n"), 0o600)).To(Succeed())

		cfg, err := config.Load(path, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Logging.Level).To(Equal("WARN"))
		Expect(cfg.Registry.TTL).To(Equal(config.DefaultConfig().Registry.TTL))
	})

	It("should let environment variables override file values", func() {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte("logging:\n  level: WARN\n"), 0o600)).To(Succeed())

		GinkgoT().Setenv("LOGGING_LEVEL", "DEBUG")
		GinkgoT().Setenv("DIAG_REGISTRY_TTL", "30m")
		GinkgoT().Setenv("DIAG_METRICS_ENABLED", "true")

		cfg, err := config.Load(path, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Logging.Level).To(Equal("DEBUG"))
		Expect(cfg.Registry.TTL).To(Equal(30 * time.Minute))
		Expect(cfg.Metrics.Enabled).To(BeTrue())
	})

	It("should fail on a malformed config file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
		Expect(os.WriteFile(path, []byte("logging: ["), 0o600)).To(Succeed())

		_, err := config.Load(path, log)
		Expect(err).To(HaveOccurred())
	})
})
