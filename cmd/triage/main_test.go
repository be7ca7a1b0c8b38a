package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFromArgs(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--keywords", "2", "Emergency:", "bridge", "collapse", "near", "bridge"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "fixed-fallback", got["classifier"])
	assert.Equal(t, "Critical", got["priority"])
	assert.Equal(t, "Administrative", got["category"])
	assert.Equal(t, []any{"bridge", "emergency"}, got["keywords"])
}

func TestRunFromStdin(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader("The park is lovely\n"), &out))
	assert.Contains(t, out.String(), `"priority":"Low"`)

	err := run(nil, strings.NewReader("  "), &out)
	assert.Error(t, err)
}
