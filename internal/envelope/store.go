package envelope

import (
	"fmt"
	"io/fs"
)

// KeyStore persists key material between runs. Load methods must return an
// error matching fs.ErrNotExist when nothing has been stored yet.
type KeyStore interface {
	SaveSymmetricKey(key []byte) error
	LoadSymmetricKey() ([]byte, error)

	SavePublicKey(pemData []byte) error
	LoadPublicKey() ([]byte, error)

	SavePrivateKey(pemData []byte) error
	LoadPrivateKey() ([]byte, error)

	SaveWrappedKey(wrapped []byte) error
	LoadWrappedKey() ([]byte, error)

	SaveUnwrappedKey(key []byte) error
}

// KeyRemover is implemented by stores that can delete a slot. Generate uses
// it to drop keys it already wrote when a later save fails.
type KeyRemover interface {
	RemoveKey(slot string) error
}

// Slot names shared by the stores.
const (
	SlotSymmetricKey = "symmetric_key"
	SlotPublicKey    = "public_key"
	SlotPrivateKey   = "private_key"
	SlotWrappedKey   = "encrypted_key"
	SlotUnwrappedKey = "decrypted_key"
)

// MemoryStore is an in-memory KeyStore.
type MemoryStore struct {
	slots map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

// Get returns a copy of the named slot.
func (m *MemoryStore) Get(slot string) ([]byte, error) {
	data, ok := m.slots[slot]
	if !ok {
		return nil, fmt.Errorf("%s: %w", slot, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data in the named slot.
func (m *MemoryStore) Put(slot string, data []byte) {
	m.slots[slot] = append([]byte(nil), data...)
}

func (m *MemoryStore) SaveSymmetricKey(key []byte) error { m.Put(SlotSymmetricKey, key); return nil }
func (m *MemoryStore) LoadSymmetricKey() ([]byte, error) { return m.Get(SlotSymmetricKey) }
func (m *MemoryStore) SavePublicKey(data []byte) error   { m.Put(SlotPublicKey, data); return nil }
func (m *MemoryStore) LoadPublicKey() ([]byte, error)    { return m.Get(SlotPublicKey) }
func (m *MemoryStore) SavePrivateKey(data []byte) error  { m.Put(SlotPrivateKey, data); return nil }
func (m *MemoryStore) LoadPrivateKey() ([]byte, error)   { return m.Get(SlotPrivateKey) }
func (m *MemoryStore) SaveWrappedKey(data []byte) error  { m.Put(SlotWrappedKey, data); return nil }
func (m *MemoryStore) LoadWrappedKey() ([]byte, error)   { return m.Get(SlotWrappedKey) }
func (m *MemoryStore) SaveUnwrappedKey(key []byte) error { m.Put(SlotUnwrappedKey, key); return nil }

func (m *MemoryStore) RemoveKey(slot string) error {
	delete(m.slots, slot)
	return nil
}
