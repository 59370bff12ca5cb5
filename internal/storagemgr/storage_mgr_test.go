package storagemgr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-staking/pkg/repo"
)

func TestInitializeWrongType(t *testing.T) {
	cfg := repo.DefaultConfig()
	cfg.Storage.KvType = "unsupport"
	err := Initialize(cfg)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unknow kv type unsupport")
}

func TestOpen(t *testing.T) {
	testcase := map[string]struct {
		kvType string
	}{
		"leveldb": {kvType: repo.KVStorageTypeLeveldb},
		"pebble":  {kvType: repo.KVStorageTypePebble},
		"memory":  {kvType: repo.KVStorageTypeMemory},
	}
	for name, tc := range testcase {
		tc := tc
		t.Run(name, func(t *testing.T) {
			rep := repo.MockRepo(t)
			rep.Config.Storage.KvType = tc.kvType
			rep.Config.Storage.Sync = false
			err := Initialize(rep.Config)
			require.Nil(t, err)

			p := GetLedgerComponentPath(rep, Ledger)
			s, err := Open(p)
			require.Nil(t, err)
			require.NotNil(t, s)

			s.Put([]byte("k"), []byte("v"))

			// same path returns the shared instance
			s2, err := Open(p)
			require.Nil(t, err)
			require.Equal(t, []byte("v"), s2.Get([]byte("k")))

			require.Nil(t, Close(p))
			require.Nil(t, Close(p))
		})
	}
}

func TestOpen_ReopenAfterClose(t *testing.T) {
	rep := repo.MockRepo(t)
	rep.Config.Storage.KvType = repo.KVStorageTypeLeveldb
	rep.Config.Storage.Sync = false
	require.Nil(t, Initialize(rep.Config))

	p := GetLedgerComponentPath(rep, Ledger)
	s, err := Open(p)
	require.Nil(t, err)
	s.Put([]byte("k"), []byte("v"))
	require.Nil(t, Close(p))

	s, err = Open(p)
	require.Nil(t, err)
	require.Equal(t, []byte("v"), s.Get([]byte("k")))
	require.Nil(t, Close(p))
}
