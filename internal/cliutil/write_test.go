package cliutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mjfusa/specguard/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d issues", "compare", 2)
	assert.Equal(t, "compare: 2 issues", buf.String())
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, errors.New("simulated write error")
}

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(errorWriter{}, "This will fail") })
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateFormat(f), f)
	}
	assert.ErrorIs(t, ValidateFormat("xml"), oaserrors.ErrConfig)
}

func TestEncode(t *testing.T) {
	v := map[string]any{"path": "info", "keys": []string{"b", "a"}}

	var js bytes.Buffer
	require.NoError(t, Encode(&js, FormatJSON, v))
	assert.Equal(t, "{\n  \"keys\": [\n    \"b\",\n    \"a\"\n  ],\n  \"path\": \"info\"\n}\n", js.String())

	var ym bytes.Buffer
	require.NoError(t, Encode(&ym, FormatYAML, v))
	assert.Contains(t, ym.String(), "path: info\n")
	assert.Contains(t, ym.String(), "- b\n")

	assert.ErrorIs(t, Encode(&bytes.Buffer{}, "xml", v), oaserrors.ErrConfig)
}
