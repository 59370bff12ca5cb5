package common

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

func newTestAccount(t *testing.T) ledger.IAccount {
	lg, err := ledger.NewMemory(repo.MockRepo(t))
	require.Nil(t, err)
	return lg.StateLedger.GetOrCreateAccount(ethcommon.HexToAddress(StakingContractAddr))
}

func TestVMMap(t *testing.T) {
	type Value struct {
		Amount *big.Int
		Time   uint64
	}

	account := newTestAccount(t)
	vmMap := NewVMMap[ethcommon.Address, Value](account, "test", func(key ethcommon.Address) string { return key.String() })
	key := ethcommon.HexToAddress("0x01")

	assert.False(t, vmMap.Has(key))
	exist, v, err := vmMap.Get(key)
	assert.Nil(t, err)
	assert.Empty(t, v)
	assert.False(t, exist)
	_, err = vmMap.MustGet(key)
	assert.NotNil(t, err)

	old := Value{Amount: big.NewInt(50), Time: 10}
	require.Nil(t, vmMap.Put(key, old))
	exist, v, err = vmMap.Get(key)
	assert.Nil(t, err)
	assert.True(t, exist)
	assert.Equal(t, old, v)

	newValue := Value{Amount: big.NewInt(0), Time: 20}
	require.Nil(t, vmMap.Put(key, newValue))
	v, err = vmMap.MustGet(key)
	assert.Nil(t, err)
	assert.Equal(t, 0, v.Amount.Sign())
	assert.EqualValues(t, 20, v.Time)

	// zero value is still present
	require.Nil(t, vmMap.Put(key, Value{}))
	assert.True(t, vmMap.Has(key))

	require.Nil(t, vmMap.Delete(key))
	assert.False(t, vmMap.Has(key))
	exist, _, err = vmMap.Get(key)
	assert.Nil(t, err)
	assert.False(t, exist)

	// other keys are untouched
	other := ethcommon.HexToAddress("0x02")
	require.Nil(t, vmMap.Put(other, old))
	assert.True(t, vmMap.Has(other))
	assert.False(t, vmMap.Has(key))
}

func TestVMSlot(t *testing.T) {
	account := newTestAccount(t)
	slot := NewVMSlot[*big.Int](account, "supply")

	assert.False(t, slot.Has())
	_, err := slot.MustGet()
	assert.NotNil(t, err)

	require.Nil(t, slot.Put(big.NewInt(100)))
	v, err := slot.MustGet()
	assert.Nil(t, err)
	assert.Equal(t, big.NewInt(100), v)

	require.Nil(t, slot.Delete())
	assert.False(t, slot.Has())
	exist, v, err := slot.Get()
	assert.Nil(t, err)
	assert.False(t, exist)
	assert.Nil(t, v)

	require.Nil(t, slot.Put(big.NewInt(7)))
	assert.True(t, slot.Has())
}

func TestGetOrDefault(t *testing.T) {
	account := newTestAccount(t)
	zero := func() *big.Int { return big.NewInt(0) }

	slot := NewVMSlot[*big.Int](account, "supply")
	v, err := slot.GetOrDefault(zero)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(0), v)
	require.Nil(t, slot.Put(big.NewInt(3)))
	v, err = slot.GetOrDefault(zero)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(3), v)

	balances := NewVMMap[ethcommon.Address, *big.Int](account, "balances", func(key ethcommon.Address) string { return key.String() })
	key := ethcommon.HexToAddress("0x01")
	v, err = balances.GetOrDefault(key, zero)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(0), v)
	require.Nil(t, balances.Put(key, big.NewInt(9)))
	require.Nil(t, balances.Delete(key))
	v, err = balances.GetOrDefault(key, zero)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(0), v)
}

func TestVMSlot_Corrupted(t *testing.T) {
	account := newTestAccount(t)
	account.SetState([]byte("broken"), []byte{1, '{'})
	slot := NewVMSlot[uint64](account, "broken")
	_, _, err := slot.Get()
	assert.NotNil(t, err)
	assert.False(t, slot.Has())
}
