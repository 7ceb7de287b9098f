package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{"high", PriorityHigh, false},
		{"HIGH", PriorityHigh, false},
		{" Medium ", PriorityMedium, false},
		{"low", PriorityLow, false},
		{"urgent", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriorityJSON(t *testing.T) {
	var p Priority
	require.NoError(t, json.Unmarshal([]byte(`"LoW"`), &p))
	assert.Equal(t, PriorityLow, p)

	err := json.Unmarshal([]byte(`"someday"`), &p)
	assert.ErrorIs(t, err, ErrInvalidPriority)

	out, err := json.Marshal(PriorityHigh)
	require.NoError(t, err)
	assert.JSONEq(t, `"high"`, string(out))
}

func TestPrioritySQL(t *testing.T) {
	v, err := PriorityMedium.Value()
	require.NoError(t, err)
	assert.Equal(t, "medium", v)

	_, err = Priority("bogus").Value()
	assert.ErrorIs(t, err, ErrInvalidPriority)

	var p Priority
	require.NoError(t, p.Scan([]byte("HIGH")))
	assert.Equal(t, PriorityHigh, p)
	require.NoError(t, p.Scan("low"))
	assert.Equal(t, PriorityLow, p)
	assert.Error(t, p.Scan(42))
}
