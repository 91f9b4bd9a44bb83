package netsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownConditions(t *testing.T) {
	tests := []struct {
		name        string
		packetLoss  float64
		latencyMs   float64
		jitterMs    float64
		description string
	}{
		{
			name:        "normal",
			packetLoss:  0.0,
			latencyMs:   10,
			jitterMs:    5,
			description: "Normal network (stable connection)",
		},
		{
			name:        "poor",
			packetLoss:  0.15,
			latencyMs:   200,
			jitterMs:    50,
			description: "Poor network (mobile 3G-like)",
		},
		{
			name:        "terrible",
			packetLoss:  0.15,
			latencyMs:   500,
			jitterMs:    150,
			description: "Terrible network (congested/unstable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.packetLoss, c.PacketLoss)
			assert.Equal(t, tt.latencyMs, c.LatencyMs)
			assert.Equal(t, tt.jitterMs, c.JitterMs)
			assert.Equal(t, tt.description, c.Description)
		})
	}
}

func TestLookupUnknownCondition(t *testing.T) {
	_, err := Lookup("offline")
	require.Error(t, err)
	assert.IsType(t, ErrUnknownCondition{}, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"normal", "poor", "terrible"}, Names())
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("normal"))
	assert.True(t, IsValid("poor"))
	assert.True(t, IsValid("terrible"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("NORMAL"))
	assert.False(t, IsValid("offline"))
}
