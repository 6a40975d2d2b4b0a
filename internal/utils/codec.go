package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// CardNumberCodec reversibly transforms a plaintext card number into its stored form.
// Encode must be deterministic so the stored form can carry a uniqueness constraint.
type CardNumberCodec interface {
	Encode(plaintext string) (string, error)
	Decode(opaque string) (string, error)
}

// NewCodec builds the codec selected by kind: "aes" or "xor"
func NewCodec(kind, encryptionKey, keyword string) (CardNumberCodec, error) {
	switch kind {
	case "", "aes":
		return NewAESCodec(encryptionKey)
	case "xor":
		return NewXORCodec(keyword)
	default:
		return nil, fmt.Errorf("unknown card codec %q", kind)
	}
}

// XORCodec XORs the number with a repeating keyword and base64-encodes the result.
// It is obfuscation only and offers no confidentiality; it exists to read
// numbers written by older deployments.
type XORCodec struct {
	keyword []byte
}

// NewXORCodec creates a keyword codec
func NewXORCodec(keyword string) (*XORCodec, error) {
	if keyword == "" {
		return nil, fmt.Errorf("codec keyword is empty")
	}
	return &XORCodec{keyword: []byte(keyword)}, nil
}

func (c *XORCodec) xor(data []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ c.keyword[i%len(c.keyword)]
	}
	return out
}

// Encode obfuscates plaintext
func (c *XORCodec) Encode(plaintext string) (string, error) {
	if len(plaintext) == 0 {
		return "", fmt.Errorf("input data is empty")
	}
	return base64.StdEncoding.EncodeToString(c.xor([]byte(plaintext))), nil
}

// Decode reverses Encode
func (c *XORCodec) Decode(opaque string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(opaque)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return string(c.xor(data)), nil
}

// AESCodec encrypts numbers with AES-256-CBC under a synthetic IV derived
// from an HMAC of the plaintext. Equal numbers encrypt to equal ciphertexts,
// and Decode rejects ciphertexts whose IV does not match the recovered plaintext.
type AESCodec struct {
	block  cipher.Block
	macKey []byte
}

// NewAESCodec derives the cipher and MAC keys from a hex-encoded master key
func NewAESCodec(masterKeyHex string) (*AESCodec, error) {
	master, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	if len(master) < 16 {
		return nil, fmt.Errorf("encryption key must be at least 16 bytes, got %d", len(master))
	}

	encKey, err := deriveKey(master, "bank-cards/card-number/enc")
	if err != nil {
		return nil, err
	}
	macKey, err := deriveKey(master, "bank-cards/card-number/siv")
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return &AESCodec{block: block, macKey: macKey}, nil
}

func deriveKey(master []byte, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

func (c *AESCodec) syntheticIV(plaintext []byte) []byte {
	h := hmac.New(sha256.New, c.macKey)
	h.Write(plaintext)
	return h.Sum(nil)[:aes.BlockSize]
}

// Encode encrypts plaintext and returns hex(iv || ciphertext)
func (c *AESCodec) Encode(plaintext string) (string, error) {
	if len(plaintext) == 0 {
		return "", fmt.Errorf("input data is empty")
	}

	data := []byte(plaintext)
	iv := c.syntheticIV(data)

	// PKCS#7 padding
	padding := aes.BlockSize - len(data)%aes.BlockSize
	for i := 0; i < padding; i++ {
		data = append(data, byte(padding))
	}

	ciphertext := make([]byte, len(data))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, data)

	return hex.EncodeToString(append(iv, ciphertext...)), nil
}

// Decode decrypts a value produced by Encode
func (c *AESCodec) Decode(opaque string) (string, error) {
	data, err := hex.DecodeString(opaque)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %w", err)
	}
	if len(data) < 2*aes.BlockSize {
		return "", fmt.Errorf("encrypted data too short: %d bytes", len(data))
	}

	iv := data[:aes.BlockSize]
	ciphertext := data[aes.BlockSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("invalid ciphertext length: %d bytes", len(ciphertext))
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plaintext, ciphertext)

	// Remove PKCS#7 padding
	padding := int(plaintext[len(plaintext)-1])
	if padding > aes.BlockSize || padding == 0 {
		return "", fmt.Errorf("invalid padding value: %d", padding)
	}
	for i := len(plaintext) - padding; i < len(plaintext); i++ {
		if int(plaintext[i]) != padding {
			return "", fmt.Errorf("invalid padding bytes at position %d", i)
		}
	}
	plaintext = plaintext[:len(plaintext)-padding]

	if subtle.ConstantTimeCompare(iv, c.syntheticIV(plaintext)) != 1 {
		return "", fmt.Errorf("ciphertext authentication failed")
	}
	return string(plaintext), nil
}
