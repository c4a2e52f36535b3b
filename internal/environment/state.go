// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/exp/maps"
)

// StateFile is the name of the persisted environment under the doctree dir.
const StateFile = "environment.pickle"

type state struct {
	Version     map[string]int   `cbor:"1,keyasint"`
	Fingerprint string           `cbor:"2,keyasint"`
	ReadTimes   map[string]int64 `cbor:"3,keyasint"`
}

var stateEncMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("environment: cbor encoder: %v", err))
	}
	return mode
}()

func (e *BuildEnvironment) statePath() string {
	return filepath.Join(e.doctreeDir, StateFile)
}

// Restore loads the state of a previous build. The configuration status
// becomes ConfigExtensionsChanged when the version stamp differs,
// ConfigChanged when the fingerprint differs, and ConfigUnchanged otherwise;
// read times are only kept in the last case. Missing or unreadable state
// leaves the environment as new.
func (e *BuildEnvironment) Restore() error {
	data, err := os.ReadFile(e.statePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read environment state: %w", err)
	}

	var st state
	if err := cbor.Unmarshal(data, &st); err != nil {
		e.logger.Warn("discarding unreadable environment state", "err", err)
		return nil
	}

	switch {
	case !maps.Equal(st.Version, e.version):
		e.status = ConfigExtensionsChanged
	case st.Fingerprint != e.fingerprint:
		e.status = ConfigChanged
	default:
		e.status = ConfigUnchanged
		for docname, ns := range st.ReadTimes {
			e.readTimes[docname] = time.Unix(0, ns)
		}
	}
	e.logger.Debug("restored environment", "status", e.status, "documents", len(e.readTimes))
	return nil
}

// Save persists the version stamp, fingerprint and read times.
func (e *BuildEnvironment) Save() error {
	st := state{
		Version:     e.version,
		Fingerprint: e.fingerprint,
		ReadTimes:   make(map[string]int64, len(e.readTimes)),
	}
	for docname, t := range e.readTimes {
		st.ReadTimes[docname] = t.UnixNano()
	}
	data, err := stateEncMode.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode environment state: %w", err)
	}
	if err := os.MkdirAll(e.doctreeDir, 0o755); err != nil {
		return fmt.Errorf("create doctree directory: %w", err)
	}
	if err := os.WriteFile(e.statePath(), data, 0o644); err != nil {
		return fmt.Errorf("write environment state: %w", err)
	}
	e.status = ConfigUnchanged
	return nil
}

// ReadTime returns the modification time of docname's source when it was
// last read.
func (e *BuildEnvironment) ReadTime(docname string) (time.Time, bool) {
	t, ok := e.readTimes[docname]
	return t, ok
}

// NoteRead records that docname was read from a source with mtime.
func (e *BuildEnvironment) NoteRead(docname string, mtime time.Time) {
	e.readTimes[docname] = mtime
}

// Forget drops docname from the environment and from every domain.
func (e *BuildEnvironment) Forget(docname string) {
	delete(e.readTimes, docname)
	for _, d := range e.domains {
		d.ClearDoc(docname)
	}
}

// ReadDocs returns the documents with a recorded read.
func (e *BuildEnvironment) ReadDocs() DocSet {
	out := make(DocSet, len(e.readTimes))
	for docname := range e.readTimes {
		out.Add(docname)
	}
	return out
}
