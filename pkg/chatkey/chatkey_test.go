package chatkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveOrderIndependent(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"already sorted", "Ualice", "Ubob", "Ualice_Ubob"},
		{"reversed", "Ubob", "Ualice", "Ualice_Ubob"},
		{"numeric suffixes", "U2", "U10", "U10_U2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.a, tt.b))
			assert.Equal(t, Derive(tt.a, tt.b), Derive(tt.b, tt.a))
		})
	}
}

func TestParticipantsRoundTrip(t *testing.T) {
	key := Derive("Uzed", "Uann")
	one, two, ok := Participants(key)
	require.True(t, ok)
	assert.Equal(t, "Uann", one)
	assert.Equal(t, "Uzed", two)
	assert.True(t, one < two)
}

func TestParticipantsMalformed(t *testing.T) {
	for _, key := range []string{"", "nounderscore", "_trailing", "leading_"} {
		_, _, ok := Participants(key)
		assert.False(t, ok, "key %q", key)
	}
}

func TestOther(t *testing.T) {
	key := Derive("Uann", "Uzed")

	peer, ok := Other(key, "Uann")
	require.True(t, ok)
	assert.Equal(t, "Uzed", peer)

	peer, ok = Other(key, "Uzed")
	require.True(t, ok)
	assert.Equal(t, "Uann", peer)

	_, ok = Other(key, "Uintruder")
	assert.False(t, ok)
}
