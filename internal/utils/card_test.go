package utils

import (
	"testing"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234123412341234", "**** **** **** 1234"},
		{"4000001234567899", "**** **** **** 7899"},
		{"123412341234123", "**** **** **** ****"},
		{"1234-1234-1234-1234", "**** **** **** ****"},
		{"", "**** **** **** ****"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.in))
		})
	}
}

func TestValidateCardNumber(t *testing.T) {
	assert.NoError(t, ValidateCardNumber("4111111111111111"))
	assert.NoError(t, ValidateCardNumber("5555555555554444"))

	for _, bad := range []string{"4111111111111112", "411111111111111", "41111111111111111", "4111a11111111111"} {
		assert.ErrorIs(t, ValidateCardNumber(bad), models.ErrInvalidCardNumber, bad)
	}
}

func TestGenerateCardNumber(t *testing.T) {
	for i := 0; i < 50; i++ {
		number, err := GenerateCardNumber("400000")
		require.NoError(t, err)
		assert.Len(t, number, CardNumberLength)
		assert.Equal(t, "400000", number[:6])
		assert.NoError(t, ValidateCardNumber(number))
	}

	_, err := GenerateCardNumber("")
	assert.Error(t, err)
	_, err = GenerateCardNumber("40x")
	assert.Error(t, err)
}

func TestDefaultExpiration(t *testing.T) {
	got := DefaultExpiration(time.Date(2025, 2, 10, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestCodecRoundTrip(t *testing.T) {
	aesCodec, err := NewAESCodec(testKey)
	require.NoError(t, err)
	xorCodec, err := NewXORCodec("bank_rest")
	require.NoError(t, err)

	codecs := map[string]CardNumberCodec{"aes": aesCodec, "xor": xorCodec}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			seen := map[string]string{}
			for i := 0; i < 200; i++ {
				number, err := GenerateCardNumber("4")
				require.NoError(t, err)

				encoded, err := codec.Encode(number)
				require.NoError(t, err)
				assert.NotEqual(t, number, encoded)

				again, err := codec.Encode(number)
				require.NoError(t, err)
				assert.Equal(t, encoded, again, "encoding must be deterministic")

				decoded, err := codec.Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, number, decoded)

				if prev, ok := seen[encoded]; ok {
					assert.Equal(t, prev, number, "distinct numbers must not collide")
				}
				seen[encoded] = number
			}
		})
	}
}

func TestXORCodecKnownValue(t *testing.T) {
	codec, err := NewXORCodec("bank_rest")
	require.NoError(t, err)

	encoded, err := codec.Encode("1234123412341234")
	require.NoError(t, err)
	assert.Equal(t, "U1NdX25AVkdFUFJaWm1BUQ==", encoded)
}

func TestAESCodecRejectsTampering(t *testing.T) {
	codec, err := NewAESCodec(testKey)
	require.NoError(t, err)

	encoded, err := codec.Encode("4111111111111111")
	require.NoError(t, err)

	tampered := []byte(encoded)
	if tampered[len(tampered)-1] == '0' {
		tampered[len(tampered)-1] = '1'
	} else {
		tampered[len(tampered)-1] = '0'
	}
	_, err = codec.Decode(string(tampered))
	assert.Error(t, err)

	_, err = codec.Decode("zz")
	assert.Error(t, err)

	other, err := NewAESCodec("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	_, err = other.Decode(encoded)
	assert.Error(t, err)
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec("aes", testKey, "")
	require.NoError(t, err)
	assert.IsType(t, &AESCodec{}, c)

	c, err = NewCodec("xor", "", "bank_rest")
	require.NoError(t, err)
	assert.IsType(t, &XORCodec{}, c)

	_, err = NewCodec("rot13", testKey, "")
	assert.Error(t, err)
	_, err = NewAESCodec("abcd")
	assert.Error(t, err)
}
