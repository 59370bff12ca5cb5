package ledger

import (
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/repo"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

var _ StateLedger = (*StateLedgerImpl)(nil)

type revision struct {
	id           int
	changerIndex int
}

type StateLedgerImpl struct {
	logger  logrus.FieldLogger
	backend kv.Storage
	repo    *repo.Repo

	accounts map[ethcommon.Address]*SimpleAccount
	changer  *stateChanger
	logs     []*types.EvmLog

	validRevisions []revision
	nextRevisionId int

	blockHeight    uint64
	blockTimestamp uint64
	version        uint64
}

func newStateLedger(rep *repo.Repo, backend kv.Storage) (*StateLedgerImpl, error) {
	l := &StateLedgerImpl{
		logger:   loggers.Logger(loggers.Ledger),
		backend:  backend,
		repo:     rep,
		accounts: make(map[ethcommon.Address]*SimpleAccount),
		changer:  newChanger(),
	}

	if raw := backend.Get([]byte(stateVersionKey)); raw != nil {
		if len(raw) != 8 {
			return nil, fmt.Errorf("invalid state version: %x", raw)
		}
		l.version = binary.BigEndian.Uint64(raw)
	}
	l.blockHeight = l.version + 1
	return l, nil
}

// GetOrCreateAccount get the account, if not exist, create a new account
func (l *StateLedgerImpl) GetOrCreateAccount(addr ethcommon.Address) IAccount {
	return l.getOrCreateAccount(addr)
}

func (l *StateLedgerImpl) getOrCreateAccount(addr ethcommon.Address) *SimpleAccount {
	account := l.getAccount(addr)
	if account == nil {
		account = NewAccount(l.logger, l.backend, addr, l.changer)
		l.changer.append(createObjectChange{account: addr})
		l.accounts[addr] = account
		l.logger.Debugf("[GetOrCreateAccount] create account, addr: %v", addr)
	}
	return account
}

// GetAccount get account info using account Address
func (l *StateLedgerImpl) GetAccount(addr ethcommon.Address) IAccount {
	account := l.getAccount(addr)
	if account == nil {
		return nil
	}
	return account
}

func (l *StateLedgerImpl) getAccount(addr ethcommon.Address) *SimpleAccount {
	if account, ok := l.accounts[addr]; ok {
		return account
	}

	start := time.Now()
	exist := l.backend.Has(compositeAccountKey(addr))
	kvReadDuration.WithLabelValues(readAccount).Observe(time.Since(start).Seconds())
	if !exist {
		return nil
	}

	account := NewAccount(l.logger, l.backend, addr, l.changer)
	account.persisted = true
	l.accounts[addr] = account
	return account
}

func (l *StateLedgerImpl) GetState(addr ethcommon.Address, key []byte) (bool, []byte) {
	account := l.getAccount(addr)
	if account == nil {
		return false, nil
	}
	return account.GetState(key)
}

func (l *StateLedgerImpl) SetState(addr ethcommon.Address, key []byte, value []byte) {
	l.getOrCreateAccount(addr).SetState(key, value)
}

func (l *StateLedgerImpl) GetCommittedState(addr ethcommon.Address, key []byte) []byte {
	account := l.getAccount(addr)
	if account == nil {
		return nil
	}
	return account.GetCommittedState(key)
}

func (l *StateLedgerImpl) Snapshot() int {
	id := l.nextRevisionId
	l.nextRevisionId++
	l.validRevisions = append(l.validRevisions, revision{id: id, changerIndex: l.changer.length()})
	return id
}

func (l *StateLedgerImpl) RevertToSnapshot(revid int) {
	idx := sort.Search(len(l.validRevisions), func(i int) bool {
		return l.validRevisions[i].id >= revid
	})
	if idx == len(l.validRevisions) || l.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannod be reverted", revid))
	}
	snap := l.validRevisions[idx].changerIndex

	l.changer.revert(l, snap)
	l.validRevisions = l.validRevisions[:idx]
}

func (l *StateLedgerImpl) AddLog(log *types.EvmLog) {
	log.BlockNumber = l.blockHeight
	l.changer.append(addLogChange{})
	l.logs = append(l.logs, log)
}

// GetLogs returns the logs emitted since the last Finalise.
func (l *StateLedgerImpl) GetLogs() []*types.EvmLog {
	return l.logs
}

func (l *StateLedgerImpl) PrepareBlock(height uint64, timestamp uint64) {
	l.blockHeight = height
	l.blockTimestamp = timestamp
}

func (l *StateLedgerImpl) Finalise() {
	l.changer.reset()
	l.logs = nil
	l.validRevisions = l.validRevisions[:0]
	l.nextRevisionId = 0
}

func (l *StateLedgerImpl) Commit() error {
	if l.changer.length() != 0 {
		return fmt.Errorf("commit with %d unfinalised changes", l.changer.length())
	}
	start := time.Now()

	batch := l.backend.NewBatch()
	addrs := make([]ethcommon.Address, 0, len(l.accounts))
	for addr := range l.accounts {
		addrs = append(addrs, addr)
	}
	// deterministic batch order
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Cmp(addrs[j]) < 0
	})
	for _, addr := range addrs {
		account := l.accounts[addr]
		if account.IsEmpty() {
			continue
		}
		account.flush(batch)
	}
	batch.Put([]byte(stateVersionKey), marshalHeight(l.blockHeight))
	batch.Commit()

	l.version = l.blockHeight
	l.blockHeight++
	commitDuration.Observe(time.Since(start).Seconds())
	committedHeight.Set(float64(l.version))
	l.logger.WithFields(logrus.Fields{
		"height":    l.version,
		"timestamp": l.blockTimestamp,
		"accounts":  len(addrs),
		"elapse":    time.Since(start),
	}).Debug("Commit state")
	return nil
}

func (l *StateLedgerImpl) Version() uint64 {
	return l.version
}

func (l *StateLedgerImpl) Close() {
	l.accounts = make(map[ethcommon.Address]*SimpleAccount)
	l.changer.reset()
}

func marshalHeight(height uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, height)
	return raw
}
