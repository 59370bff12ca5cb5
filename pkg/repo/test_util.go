package repo

import (
	"testing"
)

var MockAccounts = []string{
	"0xc7F999b83Af6DF9e67d0a37Ee7e900bF38b3D013",
	"0x79a1215469FaB6f9c63c1816b45183AD3624bE34",
	"0x97c8B516D19edBf575D72a172Af7F418BE498C37",
}

// MockRepo returns a repo rooted at a temp dir backed by memory storage.
func MockRepo(t testing.TB) *Repo {
	rep := Default(t.TempDir())
	rep.Config.Storage.KvType = KVStorageTypeMemory
	rep.Config.Log.Level = "debug"
	rep.GenesisConfig.Timestamp = 1000
	return rep
}
