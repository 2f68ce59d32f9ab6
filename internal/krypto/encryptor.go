package krypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrUnknownKey indicates that the key used to encrypt the data is unknown.
	ErrUnknownKey = errors.New("unknown key")
	// ErrInvalidData indicates that the data is invalid.
	ErrInvalidData = errors.New("invalid data")
)

// keyIDLen is the size of the big endian key index that prefixes every message.
const keyIDLen = 4

// Encryptor encrypts and decrypts data using AES-GCM.
//
// Keys form an append only list, new data is always sealed with the last
// key. Messages have the layout:
//
//	key index (4 bytes) | nonce | ciphertext
//
// The key index is authenticated as additional data, so it can't be
// swapped out without failing decryption. It is not secret.
type Encryptor struct {
	aeads []cipher.AEAD
}

// NewEncryptor prepares an AES-GCM cipher for every key.
func NewEncryptor(keys []Key) (*Encryptor, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: at least one key is required", ErrInvalidKey)
	}

	aeads := make([]cipher.AEAD, 0, len(keys))
	for i, k := range keys {
		block, err := aes.NewCipher(k.value)
		if err != nil {
			return nil, fmt.Errorf("%w: key %d: %w", ErrInvalidKey, i, err)
		}

		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}

		aeads = append(aeads, aead)
	}

	return &Encryptor{aeads: aeads}, nil
}

// Encrypt seals data with the latest key.
func (e *Encryptor) Encrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	id := len(e.aeads) - 1
	aead := e.aeads[id]

	nonce, err := genRandomBytes(aead.NonceSize())
	if err != nil {
		return nil, err
	}

	header := binary.BigEndian.AppendUint32(nil, uint32(id))

	out := make([]byte, 0, keyIDLen+len(nonce)+len(data)+aead.Overhead())
	out = append(out, header...)
	out = append(out, nonce...)

	return aead.Seal(out, nonce, data, header), nil
}

// Decrypt opens a message created by Encrypt, using the key it names.
func (e *Encryptor) Decrypt(message []byte) ([]byte, error) {
	if len(message) < keyIDLen {
		return nil, ErrInvalidData
	}

	header := message[:keyIDLen]
	id := binary.BigEndian.Uint32(header)
	if uint64(id) >= uint64(len(e.aeads)) {
		return nil, ErrUnknownKey
	}

	aead := e.aeads[id]
	rest := message[keyIDLen:]
	if len(rest) <= aead.NonceSize() {
		return nil, ErrInvalidData
	}

	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	data, err := aead.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	return data, nil
}
