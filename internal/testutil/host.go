// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/invowk/multisrc/internal/config"
	"github.com/invowk/multisrc/internal/domains"
	"github.com/invowk/multisrc/internal/registry"

	"github.com/charmbracelet/log"
)

// Host is a build host with the built-in domains and a discarding logger.
type Host struct {
	Cfg     *config.Config
	Reg     *registry.Registry
	Doctree string
	Log     *log.Logger
}

// NewHost returns a Host whose relative paths resolve against baseDir and
// whose doctrees go to a temporary directory.
func NewHost(t testing.TB, baseDir string) *Host {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseDir = baseDir

	reg := registry.New()
	if err := domains.RegisterBuiltins(reg); err != nil {
		t.Fatalf("failed to register domains: %v", err)
	}
	return &Host{
		Cfg:     cfg,
		Reg:     reg,
		Doctree: filepath.Join(t.TempDir(), "doctrees"),
		Log:     log.New(io.Discard),
	}
}

func (h *Host) Config() *config.Config       { return h.Cfg }
func (h *Host) Registry() *registry.Registry { return h.Reg }
func (h *Host) DoctreeDir() string           { return h.Doctree }
func (h *Host) Logger() *log.Logger          { return h.Log }
