package numlit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brian-m/nico/internal/diag"
)

func TestDecodePlainInt(t *testing.T) {
	d, code := Decode("123")
	assert.Equal(t, diag.Null, code)
	assert.Equal(t, Base10, d.Base)
	assert.Equal(t, "123", d.IntDigits)
	assert.False(t, d.IsFloat)
	assert.True(t, d.Signed)
}

func TestDecodeHexWithSuffix(t *testing.T) {
	d, code := Decode("0x1Fu8")
	assert.Equal(t, diag.Null, code)
	assert.Equal(t, Base16, d.Base)
	assert.Equal(t, "1F", d.IntDigits)
	assert.False(t, d.Signed)
	assert.False(t, d.IsFloat)
}

func TestDecodeHexTrailingFIsDigitNotSuffix(t *testing.T) {
	d, code := Decode("0x1f")
	assert.Equal(t, diag.Null, code)
	assert.Equal(t, "1f", d.IntDigits)
	assert.False(t, d.IsFloat)
}

func TestDecodeFloatWithFraction(t *testing.T) {
	d, code := Decode("3.14")
	assert.Equal(t, diag.Null, code)
	assert.True(t, d.IsFloat)
	assert.Equal(t, "3", d.IntDigits)
	assert.Equal(t, "14", d.FracDigits)
}

func TestDecodeBareFloatSuffix(t *testing.T) {
	d, code := Decode("3f")
	assert.Equal(t, diag.Null, code)
	assert.True(t, d.IsFloat)
	assert.Equal(t, "3", d.IntDigits)
}

func TestDecodeUnderscoreSeparators(t *testing.T) {
	d, code := Decode("1_000_000")
	assert.Equal(t, diag.Null, code)
	assert.Equal(t, "1000000", d.IntDigits)
}

func TestDecodeDotInHexIsError(t *testing.T) {
	_, code := Decode("0x1.5")
	assert.Equal(t, diag.UnexpectedDotInNumber, code)
}

func TestDecodeExpInBinaryIsError(t *testing.T) {
	_, code := Decode("0b101e10")
	assert.Equal(t, diag.UnexpectedExpInNumber, code)
}

func TestDecodeDigitOutOfBase(t *testing.T) {
	_, code := Decode("0b102")
	assert.Equal(t, diag.DigitInWrongBase, code)
}

func TestDecodeExponentWithSign(t *testing.T) {
	d, code := Decode("1e-10")
	assert.Equal(t, diag.Null, code)
	assert.True(t, d.HasExp)
	assert.Equal(t, "-", d.ExpSign)
	assert.Equal(t, "10", d.ExpDigits)
}

func TestDecodeWidthSuffixes(t *testing.T) {
	d, code := Decode("42i64")
	assert.Equal(t, diag.Null, code)
	assert.True(t, d.Signed)
	assert.Equal(t, "42", d.IntDigits)

	d2, code2 := Decode("9f32")
	assert.Equal(t, diag.Null, code2)
	assert.True(t, d2.IsFloat)
	assert.Equal(t, "9", d2.IntDigits)
}
