package ledger

import (
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/internal/storagemgr/kv"
)

var _ IAccount = (*SimpleAccount)(nil)

type bytesLazyLogger struct {
	bytes []byte
}

func (l *bytesLazyLogger) String() string {
	return hexutil.Encode(l.bytes)
}

type SimpleAccount struct {
	logger logrus.FieldLogger
	Addr   ethcommon.Address

	// The committed state, a nil value means the key was read and is absent
	originState map[string][]byte

	// Modified state of the current block, a nil value means deleted
	dirtyState map[string][]byte

	backend kv.Storage
	changer *stateChanger

	// persisted is false until the account marker is written to the backend
	persisted bool
}

func NewAccount(logger logrus.FieldLogger, backend kv.Storage, addr ethcommon.Address, changer *stateChanger) *SimpleAccount {
	return &SimpleAccount{
		logger:      logger,
		Addr:        addr,
		originState: make(map[string][]byte),
		dirtyState:  make(map[string][]byte),
		backend:     backend,
		changer:     changer,
	}
}

func (o *SimpleAccount) String() string {
	return fmt.Sprintf("{address: %v, dirty_keys: %d}", o.Addr, len(o.dirtyState))
}

func (o *SimpleAccount) GetAddress() ethcommon.Address {
	return o.Addr
}

// GetState Get state from local cache, if not found, then get it from DB
func (o *SimpleAccount) GetState(key []byte) (bool, []byte) {
	if value, exist := o.dirtyState[string(key)]; exist {
		o.logger.Debugf("[GetState] get from dirty, addr: %v, key: %v, state: %v", o.Addr, &bytesLazyLogger{bytes: key}, &bytesLazyLogger{bytes: value})
		return value != nil, value
	}

	value := o.GetCommittedState(key)
	return value != nil, value
}

func (o *SimpleAccount) GetCommittedState(key []byte) []byte {
	if value, exist := o.originState[string(key)]; exist {
		return value
	}

	start := time.Now()
	val := o.backend.Get(compositeStorageKey(o.Addr, key))
	kvReadDuration.WithLabelValues(readState).Observe(time.Since(start).Seconds())
	o.logger.Debugf("[GetCommittedState] get from backend, addr: %v, key: %v, state: %v", o.Addr, &bytesLazyLogger{bytes: key}, &bytesLazyLogger{bytes: val})

	o.originState[string(key)] = val
	return val
}

// SetState Set account state, an empty value deletes the key
func (o *SimpleAccount) SetState(key []byte, value []byte) {
	prev, prevDirty := o.dirtyState[string(key)]
	o.changer.append(storageChange{
		account:   o.Addr,
		key:       key,
		prevalue:  prev,
		prevDirty: prevDirty,
	})
	o.logger.Debugf("[SetState] addr: %v, key: %v, before state: %v, after state: %v", o.Addr, &bytesLazyLogger{bytes: key}, &bytesLazyLogger{bytes: prev}, &bytesLazyLogger{bytes: value})
	if len(value) == 0 {
		value = nil
	}
	o.dirtyState[string(key)] = value
}

// IsEmpty reports whether the account holds no dirty state and was never persisted.
func (o *SimpleAccount) IsEmpty() bool {
	if o.persisted {
		return false
	}
	for _, v := range o.dirtyState {
		if v != nil {
			return false
		}
	}
	return true
}

// flush writes the dirty state into batch and moves it to the committed state.
func (o *SimpleAccount) flush(batch kv.Batch) {
	if !o.persisted {
		batch.Put(compositeAccountKey(o.Addr), []byte{1})
		o.persisted = true
	}
	for k, v := range o.dirtyState {
		if v == nil {
			batch.Delete(compositeStorageKey(o.Addr, []byte(k)))
		} else {
			batch.Put(compositeStorageKey(o.Addr, []byte(k)), v)
		}
		o.originState[k] = v
	}
	o.dirtyState = make(map[string][]byte)
}
