package genesis

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-staking/internal/executor/system"
	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

func TestInitialize(t *testing.T) {
	rep := repo.MockRepo(t)
	lg, err := ledger.NewMemory(rep)
	require.Nil(t, err)
	assert.False(t, IsInitialized(lg))

	nvm := system.New()
	meta, err := Initialize(rep.GenesisConfig, nvm, lg, 1234)
	require.Nil(t, err)
	assert.EqualValues(t, Height, meta.Height)
	assert.EqualValues(t, 1234, meta.Timestamp)
	assert.Equal(t, meta, lg.ChainLedger.GetChainMeta())
	assert.True(t, IsInitialized(lg))

	// genesis balances are readable from the committed state
	stakeToken := ethcommon.HexToAddress(common.StakeTokenContractAddr)
	user := ethcommon.HexToAddress(repo.MockAccounts[1])
	data, err := nvm.PackInput(stakeToken, "balanceOf", user)
	require.Nil(t, err)
	ret, err := nvm.Run(common.NewVMContext(lg.StateLedger, Height, meta.Timestamp, user), stakeToken, data)
	require.Nil(t, err)
	outputs, err := nvm.UnpackOutputArgs(stakeToken, "balanceOf", ret)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(100), outputs[0])
}

func TestInitialize_InvalidGenesis(t *testing.T) {
	rep := repo.MockRepo(t)
	rep.GenesisConfig.Staking.RewardsTime = 0
	lg, err := ledger.NewMemory(rep)
	require.Nil(t, err)

	_, err = Initialize(rep.GenesisConfig, system.New(), lg, 1000)
	assert.NotNil(t, err)
	assert.EqualValues(t, 0, lg.ChainLedger.GetChainMeta().Height)
}

func TestGetGenesisConfig(t *testing.T) {
	rep := repo.MockRepo(t)
	rep.GenesisConfig.Timestamp = 0
	lg, err := ledger.NewMemory(rep)
	require.Nil(t, err)

	genesisConfig, err := GetGenesisConfig(lg)
	assert.Nil(t, err)
	assert.Nil(t, genesisConfig)

	_, err = Initialize(rep.GenesisConfig, system.New(), lg, 2000)
	require.Nil(t, err)
	genesisConfig, err = GetGenesisConfig(lg)
	require.Nil(t, err)
	require.NotNil(t, genesisConfig)
	assert.EqualValues(t, 2000, genesisConfig.Timestamp)
	assert.Equal(t, rep.GenesisConfig.Staking.Owner, genesisConfig.Staking.Owner)
	assert.Equal(t, rep.GenesisConfig.StakeToken.Symbol, genesisConfig.StakeToken.Symbol)
	assert.Len(t, genesisConfig.Accounts, len(rep.GenesisConfig.Accounts))
	assert.Equal(t, 0, genesisConfig.Accounts[0].StakeBalance.ToBigInt().Cmp(rep.GenesisConfig.Accounts[0].StakeBalance.ToBigInt()))

	// the caller's config is left untouched
	assert.EqualValues(t, 0, rep.GenesisConfig.Timestamp)

	lg.StateLedger.SetState(ethcommon.HexToAddress(common.ZeroAddress), genesisConfigKey, []byte("{"))
	_, err = GetGenesisConfig(lg)
	assert.NotNil(t, err)
}
