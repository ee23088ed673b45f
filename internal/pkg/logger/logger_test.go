package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestComponentLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Format: FormatJSON, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info", Format: FormatJSON}) })

	l := Component("posts")
	l.Info().Str("postID", "p-1").Msg("created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "posts", entry["component"])
	assert.Equal(t, "p-1", entry["postID"])
	assert.Equal(t, "helphub", entry["service"])
	assert.Equal(t, "created", entry["message"])
}
