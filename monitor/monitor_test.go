// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkeller/gbasm/config"
)

func runScript(t *testing.T, script string) string {
	t.Helper()
	m := New(config.Default())
	var out strings.Builder
	m.RunCommands(strings.NewReader(script), &out, false)
	return out.String()
}

func TestMonitorRequiresAssembly(t *testing.T) {
	out := runScript(t, "sections\nquit\n")
	assert.Contains(t, out, "Nothing assembled yet.")
}

func TestMonitorUnknownCommand(t *testing.T) {
	out := runScript(t, "bogus\nquit\n")
	assert.Contains(t, out, "Command not found.")
}

func TestMonitorAssembleAndInspect(t *testing.T) {
	dir := t.TempDir()
	src := `(def-section .code :offset 0 :length 5)
(section .code)
(label 'loop)
(ld %a 1)
(jr 'loop)
`
	path := filepath.Join(dir, "demo.asm")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	script := strings.Join([]string{
		"assemble " + path,
		"sections",
		"labels",
		"dump code",
		"disassemble code",
		"evaluate 'loop",
		"quit",
	}, "\n") + "\n"

	out := runScript(t, script)
	assert.Contains(t, out, "1 section(s), 1 label(s)")
	assert.Contains(t, out, "code")
	assert.Contains(t, out, "'loop")
	assert.Contains(t, out, "(ld %a 0x01)")
	assert.Contains(t, out, "(jr 0xfc)")
	assert.Contains(t, out, "$0000 (0)")
}

func TestMonitorEvaluateWithoutResult(t *testing.T) {
	out := runScript(t, "evaluate 'missing\nquit\n")
	assert.Contains(t, out, "undefined label: 'missing")
}

func TestMonitorSet(t *testing.T) {
	out := runScript(t, "set\nquit\n")
	assert.Contains(t, out, "BytesPerLine")

	out = runScript(t, "set bytesperline 8\nset\nquit\n")
	assert.Contains(t, out, "8")

	out = runScript(t, "set nosuchvar 1\nquit\n")
	assert.Contains(t, out, "unknown variable: nosuchvar")
}
