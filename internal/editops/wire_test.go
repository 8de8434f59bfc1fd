package editops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	h := History{
		NewDelete(2),
		NewAppend(1, 3),
		NewSwap(4, 5),
		NewReplace(6, 7),
	}
	wire, err := EncodeHistory(h)
	assert.NoError(t, err)
	assert.Equal(t, "d(2) a(1,3) s(4,5) r(6,7)", wire)

	back, err := DecodeHistory(wire, nil)
	assert.NoError(t, err)
	assert.Equal(t, h, back)
}

func TestDecodeDropsCrossoverMarker(t *testing.T) {
	var warnings []string
	back, err := DecodeHistory("d(1) x(2,3) a(4,5)", func(msg string) { warnings = append(warnings, msg) })
	assert.NoError(t, err)
	assert.Equal(t, History{NewDelete(1), NewAppend(4, 5)}, back)
	assert.Len(t, warnings, 1)
}

func TestEncodeRejectsSubatomEdits(t *testing.T) {
	h := History{NewReplaceSubatom(1, 0, nil)}
	_, err := EncodeHistory(h)
	assert.Error(t, err)
}

func TestDecodeEmptyHistory(t *testing.T) {
	back, err := DecodeHistory("", nil)
	assert.NoError(t, err)
	assert.Nil(t, back)
}
