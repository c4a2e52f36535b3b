// SPDX-License-Identifier: MPL-2.0

// Package doctree defines the parsed form of a document and its on-disk
// cache: CBOR compressed with zstd, one file per document.
package doctree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Suffix is the file extension of cached doctrees.
const Suffix = ".doctree"

type (
	// Heading is one section title of a document.
	Heading struct {
		Level int    `cbor:"1,keyasint"`
		ID    string `cbor:"2,keyasint"`
		Text  string `cbor:"3,keyasint"`
	}

	// Doctree is a parsed document.
	Doctree struct {
		Docname  string         `cbor:"1,keyasint"`
		Title    string         `cbor:"2,keyasint"`
		Meta     map[string]any `cbor:"3,keyasint,omitempty"`
		Tags     []string       `cbor:"4,keyasint,omitempty"`
		Headings []Heading      `cbor:"5,keyasint,omitempty"`
		// Body is the rendered HTML fragment.
		Body string `cbor:"6,keyasint"`
	}
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("doctree: cbor encoder: %v", err))
	}
	decOpts := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Sprintf("doctree: cbor decoder: %v", err))
	}
	if encoder, err = zstd.NewWriter(nil); err != nil {
		panic(fmt.Sprintf("doctree: zstd encoder: %v", err))
	}
	if decoder, err = zstd.NewReader(nil); err != nil {
		panic(fmt.Sprintf("doctree: zstd decoder: %v", err))
	}
}

// Path returns the cache file of docname under dir.
func Path(dir, docname string) string {
	return filepath.Join(dir, filepath.FromSlash(docname)+Suffix)
}

// Marshal encodes a doctree into its compressed cache form.
func Marshal(tree *Doctree) ([]byte, error) {
	data, err := encMode.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode doctree %q: %w", tree.Docname, err)
	}
	return encoder.EncodeAll(data, nil), nil
}

// Unmarshal decodes a compressed cache entry.
func Unmarshal(data []byte) (*Doctree, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress doctree: %w", err)
	}
	var tree Doctree
	if err := decMode.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode doctree: %w", err)
	}
	return &tree, nil
}

// Write stores tree under dir.
func Write(dir string, tree *Doctree) error {
	data, err := Marshal(tree)
	if err != nil {
		return err
	}
	path := Path(dir, tree.Docname)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create doctree directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write doctree %q: %w", tree.Docname, err)
	}
	return nil
}

// Read loads the cached doctree of docname. A missing entry yields an error
// matching fs.ErrNotExist.
func Read(dir, docname string) (*Doctree, error) {
	data, err := os.ReadFile(Path(dir, docname))
	if err != nil {
		return nil, fmt.Errorf("read doctree %q: %w", docname, err)
	}
	tree, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", docname, err)
	}
	return tree, nil
}

// Remove deletes the cached doctree of docname; a missing entry is not an error.
func Remove(dir, docname string) error {
	err := os.Remove(Path(dir, docname))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove doctree %q: %w", docname, err)
	}
	return nil
}
