// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkeller/gbasm/config"
)

func TestSettingsDefaults(t *testing.T) {
	s := newSettings(config.Default())
	assert.Equal(t, 16, s.BytesPerLine)
	assert.Equal(t, "stdlib", s.StdlibRoot)
	assert.Equal(t, "a.out", s.OutFile)
	assert.False(t, s.Verbose)
}

func TestSettingsKind(t *testing.T) {
	s := newSettings(config.Default())
	assert.Equal(t, reflect.Bool, s.Kind("verbose"))
	assert.Equal(t, reflect.Int, s.Kind("bytesperline"))
	assert.Equal(t, reflect.String, s.Kind("stdlibroot"))
	assert.Equal(t, reflect.Invalid, s.Kind("nope"))
}

func TestSettingsSet(t *testing.T) {
	s := newSettings(config.Default())

	require.NoError(t, s.Set("verbose", true))
	assert.True(t, s.Verbose)

	require.NoError(t, s.Set("bytesperline", 8))
	assert.Equal(t, 8, s.BytesPerLine)

	// Unique prefixes match.
	require.NoError(t, s.Set("out", "rom.gb"))
	assert.Equal(t, "rom.gb", s.OutFile)

	assert.Error(t, s.Set("verbose", "yes"))
	assert.Error(t, s.Set("nope", 1))
}
