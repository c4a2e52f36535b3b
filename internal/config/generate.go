// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

const header = "// multisrc project configuration.\n// Relative paths are resolved against this file's directory.\n\n"

// GenerateCUE renders every declared value of cfg as a CUE file.
func GenerateCUE(cfg *Config) (string, error) {
	ctx := cuecontext.New()
	file := &ast.File{}
	for _, val := range cfg.Declared() {
		current, _ := cfg.Get(val.Name)
		encoded := ctx.Encode(current)
		if encoded.Err() != nil {
			return "", fmt.Errorf("encode %s: %w", val.Name, encoded.Err())
		}
		expr, ok := encoded.Syntax().(ast.Expr)
		if !ok {
			return "", fmt.Errorf("encode %s: unexpected syntax node %T", val.Name, encoded.Syntax())
		}
		file.Decls = append(file.Decls, &ast.Field{Label: ast.NewIdent(val.Name), Value: expr})
	}

	out, err := format.Node(file)
	if err != nil {
		return "", fmt.Errorf("format configuration: %w", err)
	}
	return header + string(out), nil
}
