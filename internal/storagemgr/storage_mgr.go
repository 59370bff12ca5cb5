package storagemgr

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

const (
	Ledger = "ledger"
)

const openRetryLimit = 5

var globalStorageMgr = &storageMgr{
	storageBuilderMap: make(map[string]func(p string) (kv.Storage, error)),
	storages:          make(map[string]kv.Storage),
	lock:              new(sync.Mutex),
}

func init() {
	memoryBuilder := func(p string) (kv.Storage, error) {
		return kv.NewMemory(), nil
	}

	// only for test
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = memoryBuilder
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypePebble] = memoryBuilder
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeMemory] = memoryBuilder
	globalStorageMgr.storageBuilderMap[""] = memoryBuilder
}

type storageMgr struct {
	storageBuilderMap map[string]func(p string) (kv.Storage, error)
	storages          map[string]kv.Storage
	defaultKVType     string
	cacheMegabytes    int
	lock              *sync.Mutex
}

func (m *storageMgr) open(typ string, p string) (kv.Storage, error) {
	builder, ok := m.storageBuilderMap[typ]
	if !ok {
		return nil, fmt.Errorf("unknow kv type %s, expect leveldb, pebble or memory", typ)
	}

	var (
		s       kv.Storage
		openErr error
	)
	// another process may still hold the file lock for a moment after exiting
	err := retry.Retry(func(attempt uint) error {
		s, openErr = builder(p)
		if openErr != nil && isLockError(openErr) {
			loggers.Logger(loggers.Storage).WithFields(logrus.Fields{
				"path":    p,
				"attempt": attempt,
			}).Warn("Storage is locked, retry later")
			return openErr
		}
		return nil
	}, strategy.Limit(openRetryLimit), strategy.Wait(200*time.Millisecond))
	if err != nil {
		return nil, err
	}
	if openErr != nil {
		return nil, openErr
	}
	return s, nil
}

func isLockError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "resource temporarily unavailable") || strings.Contains(msg, "lock held")
}

func Initialize(cfg *repo.Config) error {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()

	storageCfg := cfg.Storage
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = func(p string) (kv.Storage, error) {
		return kv.NewLevelDB(p, storageCfg.Sync)
	}
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypePebble] = func(p string) (kv.Storage, error) {
		return kv.NewPebble(p, storageCfg.KvCacheSize, storageCfg.Sync)
	}
	_, ok := globalStorageMgr.storageBuilderMap[storageCfg.KvType]
	if !ok {
		return fmt.Errorf("unknow kv type %s, expect leveldb, pebble or memory", storageCfg.KvType)
	}
	globalStorageMgr.defaultKVType = storageCfg.KvType
	globalStorageMgr.cacheMegabytes = cfg.Ledger.StateLedgerCacheMegabytesLimit
	return nil
}

// Open returns the storage at p wrapped with a read cache. Storages are shared by path.
func Open(p string) (kv.Storage, error) {
	return OpenSpecifyType(globalStorageMgr.defaultKVType, p)
}

func OpenSpecifyType(typ string, p string) (kv.Storage, error) {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()
	s, ok := globalStorageMgr.storages[p]
	if !ok {
		raw, err := globalStorageMgr.open(typ, p)
		if err != nil {
			return nil, err
		}
		s = NewCachedStorage(raw, globalStorageMgr.cacheMegabytes)
		globalStorageMgr.storages[p] = s
	}
	return s, nil
}

// Close closes the storage opened at p and forgets it.
func Close(p string) error {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()
	s, ok := globalStorageMgr.storages[p]
	if !ok {
		return nil
	}
	delete(globalStorageMgr.storages, p)
	return s.Close()
}

func GetLedgerComponentPath(rep *repo.Repo, component string) string {
	return repo.GetStoragePath(rep.RepoRoot, component)
}
