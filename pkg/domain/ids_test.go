package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Address
		wantErr bool
	}{
		{name: "plain identifier", raw: "donor-a", want: "donor-a"},
		{name: "trims surrounding space", raw: "  charity-1  ", want: "charity-1"},
		{name: "hex address lowercased", raw: "0xABCDEF0123", want: "0xabcdef0123"},
		{name: "empty", raw: "", wantErr: true},
		{name: "only whitespace", raw: "   ", wantErr: true},
		{name: "embedded whitespace", raw: "donor a", wantErr: true},
		{name: "too long", raw: strings.Repeat("a", 129), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, ZeroAddress.IsZero())
	assert.False(t, Address("donor-a").IsZero())
}

func TestCredentialIDSentinel(t *testing.T) {
	assert.True(t, NoCredential.IsNone())
	assert.False(t, CredentialID(1).IsNone())
}
