package parser

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureDeterministic(t *testing.T) {
	first := Signature(100, nil)
	second := Signature(100, []int64{})
	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestSignatureOrderIndependent(t *testing.T) {
	items := []int64{200, 300, 200, 400, 300, 200}

	want := Signature(587, items)
	for i := 0; i < 50; i++ {
		shuffled := append([]int64(nil), items...)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Signature(587, shuffled))
	}
}

func TestSignatureShipTypeParticipates(t *testing.T) {
	assert.NotEqual(t, Signature(100, []int64{200}), Signature(101, []int64{200}))
}

func TestSignatureMultisetMatters(t *testing.T) {
	one := Signature(100, []int64{200})
	two := Signature(100, []int64{200, 200})
	assert.NotEqual(t, one, two)
}

func TestSignatureMatchesCanonicalHash(t *testing.T) {
	// md5("587:") for an empty fit; pins the canonical format so stored
	// signatures stay comparable across releases.
	require.Equal(t, "d7846eac02b17fd573bbc9e583ae835e", Signature(587, nil))
	require.Equal(t, "c825ff9136fd594414121ee2dcdef6ee", Signature(100, []int64{200}))
}
