package models

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorURI(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	c := NewCredential(7, "donor-a", "ipfs://donor-meta", now)
	c.ApplyDonation(1500, now)

	uri, err := DescriptorURI(c)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:application/json;base64,"))

	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:application/json;base64,"))
	require.NoError(t, err)

	var desc Descriptor
	require.NoError(t, json.Unmarshal(payload, &desc))
	assert.Equal(t, "Giving Reputation #7", desc.Name)
	assert.Equal(t, "ipfs://donor-meta", desc.Metadata)

	byTrait := make(map[string]any)
	for _, attr := range desc.Attributes {
		byTrait[attr.TraitType] = attr.Value
	}
	assert.Equal(t, "Gold", byTrait["tier"])
	assert.Equal(t, float64(1500), byTrait["total_donated"])
	assert.Equal(t, float64(1), byTrait["donation_count"])
}

func TestDescriptorIsPure(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	c := NewCredential(1, "donor-a", "", now)

	first, err := DescriptorURI(c)
	require.NoError(t, err)
	second, err := DescriptorURI(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
