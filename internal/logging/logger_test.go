package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewJSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	l.Info().Msg("hidden")
	l.Warn().Str("column", "age").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "age", entry["column"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestWithFieldsTravelsInContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := New(&buf, "info", "json").WithContext(context.Background())
	ctx = WithFields(ctx, "run_id", "abc")
	zerolog.Ctx(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"run_id":"abc"`)
}
