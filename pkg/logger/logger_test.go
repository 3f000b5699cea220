package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})

	WithContext(Fields{"request_id": "abc"}).Info("cart updated", Fields{"items": 2})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "cart updated", line["message"])
	assert.Equal(t, "abc", line["request_id"])
	assert.EqualValues(t, 2, line["items"])
	assert.Contains(t, line["caller"], "logger_test.go")
}

func TestLogger_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})

	Debug("hidden")
	Info("hidden too")
	assert.Empty(t, buf.String())

	Error("visible", errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestParseLogLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLogLevel("verbose").String())
	assert.Equal(t, "debug", parseLogLevel("DEBUG").String())
}
