package common

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-staking/internal/ledger"
)

// A stored value is a one byte existence flag followed by the json encoding,
// so a stored zero value can be told apart from a deleted one.
const (
	flagDeleted byte = 0
	flagExist   byte = 1
)

// cell is one typed value at a fixed state key of a contract account.
type cell[V any] struct {
	account ledger.IAccount
	key     []byte
}

func (c cell[V]) get() (bool, V, error) {
	var v V
	exist, data := c.account.GetState(c.key)
	if !exist || len(data) == 0 || data[0] == flagDeleted {
		return false, v, nil
	}
	if err := json.Unmarshal(data[1:], &v); err != nil {
		return false, v, errors.Wrapf(err, "decode state %s of %s", c.key, c.account.GetAddress())
	}
	return true, v, nil
}

func (c cell[V]) mustGet() (V, error) {
	exist, v, err := c.get()
	if err != nil {
		return v, err
	}
	if !exist {
		return v, errors.Errorf("system contract[%s] state[%s] not exist", c.account.GetAddress(), c.key)
	}
	return v, nil
}

func (c cell[V]) getOrDefault(def func() V) (V, error) {
	exist, v, err := c.get()
	if err != nil || exist {
		return v, err
	}
	return def(), nil
}

func (c cell[V]) put(v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode state %s", c.key)
	}
	c.account.SetState(c.key, append([]byte{flagExist}, data...))
	return nil
}

func (c cell[V]) delete() {
	c.account.SetState(c.key, []byte{flagDeleted})
}

// VMMap is a typed map persisted in the state of a contract account,
// entry k lives at key "<name>_<keyToString(k)>".
type VMMap[K, V any] struct {
	contractAccount ledger.IAccount
	mapName         string
	keyToString     func(key K) string
}

func NewVMMap[K, V any](contractAccount ledger.IAccount, mapName string, keyToString func(key K) string) *VMMap[K, V] {
	return &VMMap[K, V]{
		contractAccount: contractAccount,
		mapName:         mapName,
		keyToString:     keyToString,
	}
}

func (m *VMMap[K, V]) entry(k K) cell[V] {
	return cell[V]{
		account: m.contractAccount,
		key:     []byte(fmt.Sprintf("%s_%s", m.mapName, m.keyToString(k))),
	}
}

func (m *VMMap[K, V]) Get(k K) (exist bool, v V, err error) {
	return m.entry(k).get()
}

func (m *VMMap[K, V]) MustGet(k K) (V, error) {
	return m.entry(k).mustGet()
}

// GetOrDefault returns def() for a missing entry.
func (m *VMMap[K, V]) GetOrDefault(k K, def func() V) (V, error) {
	return m.entry(k).getOrDefault(def)
}

func (m *VMMap[K, V]) Has(k K) bool {
	exist, _, err := m.Get(k)
	return err == nil && exist
}

func (m *VMMap[K, V]) Put(k K, v V) error {
	return m.entry(k).put(v)
}

func (m *VMMap[K, V]) Delete(k K) error {
	m.entry(k).delete()
	return nil
}

// VMSlot is a single typed value persisted in the state of a contract account.
type VMSlot[V any] struct {
	cell[V]
}

func NewVMSlot[V any](contractAccount ledger.IAccount, slotName string) *VMSlot[V] {
	return &VMSlot[V]{cell[V]{account: contractAccount, key: []byte(slotName)}}
}

func (s *VMSlot[V]) Get() (exist bool, v V, err error) {
	return s.get()
}

func (s *VMSlot[V]) MustGet() (V, error) {
	return s.mustGet()
}

// GetOrDefault returns def() if the slot was never written or was deleted.
func (s *VMSlot[V]) GetOrDefault(def func() V) (V, error) {
	return s.getOrDefault(def)
}

func (s *VMSlot[V]) Has() bool {
	exist, _, err := s.get()
	return err == nil && exist
}

func (s *VMSlot[V]) Put(v V) error {
	return s.put(v)
}

func (s *VMSlot[V]) Delete() error {
	s.delete()
	return nil
}
