package swot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountString(t *testing.T) {
	tests := []struct {
		name  string
		count Count
		want  string
	}{
		{name: "present", count: Of(12), want: "12"},
		{name: "zero is present", count: Of(0), want: "0"},
		{name: "missing", count: Missing(), want: ""},
		{name: "failed", count: Failed(), want: "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.count.String())
		})
	}
}

func TestCountZeroValueIsMissing(t *testing.T) {
	var c Count
	n, ok := c.Value()

	assert.True(t, c.IsMissing())
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestResultJSON(t *testing.T) {
	r := Result{
		Name:        "TCS",
		Strengths:   Of(7),
		Weakness:    Missing(),
		Opportunity: Of(0),
		Threat:      Failed(),
		Essentials:  "N/A",
		Status:      StatusOK,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"TCS","strengths":7,"weakness":null,"opportunity":0,"threat":"Error","essentials":"N/A","status":"ok"}`, string(data))

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestCountUnmarshalRejectsUnknownString(t *testing.T) {
	var c Count
	assert.Error(t, json.Unmarshal([]byte(`"oops"`), &c))
}
