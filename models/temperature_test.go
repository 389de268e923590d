package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureReadingJSON(t *testing.T) {
	var r TemperatureReading
	require.NoError(t, json.Unmarshal([]byte(`{"type":"numeric","value":38.5,"unit":"C"}`), &r))
	assert.Equal(t, NumericReading(38.5, Celsius), r)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"descriptive","value":"burning_up"}`), &r))
	assert.Equal(t, DescriptiveReading(BurningUp), r)

	out, err := json.Marshal(DescriptiveReading(SlightlyWarm))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"descriptive","value":"slightly_warm"}`, string(out))
}

func TestTemperatureReadingJSON_Invalid(t *testing.T) {
	var r TemperatureReading
	assert.Error(t, json.Unmarshal([]byte(`{"type":"kelvin","value":300}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"type":"numeric","value":"hot"}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"type":"descriptive","value":3}`), &r))
}

func TestIsWarningTip(t *testing.T) {
	assert.True(t, IsWarningTip("⚠️ Seek care if fever lasts over 3 days"))
	assert.True(t, IsWarningTip("❌ Do not give aspirin to children"))
	assert.False(t, IsWarningTip("Drink plenty of fluids"))
}
