package staking

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/executor/system/token"
	"github.com/axiomesh/axiom-staking/internal/executor/system/token/mock_token"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

var (
	owner = ethcommon.HexToAddress(repo.MockAccounts[0])
	user1 = ethcommon.HexToAddress(repo.MockAccounts[1])
	user2 = ethcommon.HexToAddress(repo.MockAccounts[2])
)

type testEnv struct {
	nvm          *common.TestNVM
	stakeToken   *token.Token
	rewardsToken *token.Token
	staking      *StakeContract
}

func prepareEnv(t *testing.T, modify func(genesis *repo.GenesisConfig)) *testEnv {
	testNVM := common.NewTestNVM(t)
	if modify != nil {
		modify(testNVM.Rep.GenesisConfig)
	}
	ctx := common.NewTestVMContext(testNVM.StateLedger, ethcommon.Address{})
	e := &testEnv{
		nvm:          testNVM,
		stakeToken:   token.StakeTokenBuildConfig.Build(ctx),
		rewardsToken: token.RewardsTokenBuildConfig.Build(ctx),
		staking:      BuildConfig.Build(ctx),
	}
	testNVM.GenesisInit(e.stakeToken, e.rewardsToken, e.staking)
	return e
}

func (e *testEnv) run(from ethcommon.Address, executor func() error) error {
	return e.nvm.RunSingleTX(e.staking, from, executor)
}

func (e *testEnv) approve(t *testing.T, tk *token.Token, from ethcommon.Address, amount int64) {
	err := e.nvm.RunSingleTX(tk, from, func() error {
		_, err := tk.Approve(e.staking.Address, big.NewInt(amount))
		return err
	})
	require.Nil(t, err)
}

func (e *testEnv) balance(t *testing.T, tk *token.Token, account ethcommon.Address) *big.Int {
	var balance *big.Int
	e.nvm.Call(tk, account, func() {
		var err error
		balance, err = tk.BalanceOf(account)
		require.Nil(t, err)
	})
	return balance
}

func (e *testEnv) stakeOf(t *testing.T, account ethcommon.Address) (*big.Int, uint64, uint64) {
	var (
		amount                   *big.Int
		lastStake, lastClaimTime uint64
	)
	e.nvm.Call(e.staking, account, func() {
		var err error
		amount, lastStake, lastClaimTime, err = e.staking.StakeOf(account)
		require.Nil(t, err)
	})
	return amount, lastStake, lastClaimTime
}

func (e *testEnv) rewardsSupply(t *testing.T) *big.Int {
	var supply *big.Int
	e.nvm.Call(e.staking, owner, func() {
		var err error
		supply, err = e.staking.RewardsSupply()
		require.Nil(t, err)
	})
	return supply
}

func TestStakeContract_GenesisInit(t *testing.T) {
	e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
		genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(1000)
	})

	e.nvm.Call(e.staking, user1, func() {
		stakeTime, err := e.staking.StakeTime()
		assert.Nil(t, err)
		assert.EqualValues(t, repo.DefaultStakeTime, stakeTime)
		claimTime, err := e.staking.ClaimTime()
		assert.Nil(t, err)
		assert.EqualValues(t, repo.DefaultClaimTime, claimTime)
		rewardsTime, err := e.staking.RewardsTime()
		assert.Nil(t, err)
		assert.EqualValues(t, repo.DefaultRewardsTime, rewardsTime)
		mantissa, exponent, err := e.staking.RewardsPercent()
		assert.Nil(t, err)
		assert.EqualValues(t, 2, mantissa)
		assert.EqualValues(t, 1, exponent)
		contractOwner, err := e.staking.Owner()
		assert.Nil(t, err)
		assert.Equal(t, owner, contractOwner)
		stakeToken, err := e.staking.StakeToken()
		assert.Nil(t, err)
		assert.Equal(t, e.stakeToken.Address, stakeToken)
		rewardsToken, err := e.staking.RewardsToken()
		assert.Nil(t, err)
		assert.Equal(t, e.rewardsToken.Address, rewardsToken)
		cfg, err := e.staking.getConfig()
		assert.Nil(t, err)
		assert.EqualValues(t, 1000, cfg.InitTime)
	})

	assert.Equal(t, "1000", e.rewardsSupply(t).String())
	assert.Equal(t, "1000", e.balance(t, e.rewardsToken, e.staking.Address).String())

	amount, lastStakeTime, lastClaimTime := e.stakeOf(t, user1)
	assert.Equal(t, "0", amount.String())
	assert.EqualValues(t, 0, lastStakeTime)
	assert.EqualValues(t, 1000, lastClaimTime)
}

func TestStakeContract_GenesisInit_Invalid(t *testing.T) {
	testNVM := common.NewTestNVM(t)
	staking := BuildConfig.Build(common.NewTestVMContext(testNVM.StateLedger, ethcommon.Address{}))

	testNVM.Rep.GenesisConfig.Staking.RewardsPercentMantissa = -1
	assert.ErrorIs(t, staking.GenesisInit(testNVM.Rep.GenesisConfig), ErrInvalidAmount)

	testNVM.Rep.GenesisConfig.Staking.RewardsPercentMantissa = 1
	testNVM.Rep.GenesisConfig.Staking.RewardsTime = 0
	assert.NotNil(t, staking.GenesisInit(testNVM.Rep.GenesisConfig))
}

func TestStakeContract_Stake(t *testing.T) {
	e := prepareEnv(t, nil)

	err := e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(0))
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, "Can't stake nothing!", err.Error())

	// no allowance yet
	err = e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	})
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, token.ErrInsufficientAllowance)

	e.approve(t, e.stakeToken, user1, 100)
	err = e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	})
	require.Nil(t, err)
	stakedLog := e.nvm.Logs[len(e.nvm.Logs)-1]
	assert.Equal(t, e.staking.Address, stakedLog.Address)
	assert.Equal(t, e.staking.EthAbi.Events["Staked"].ID, stakedLog.Topics[0])
	assert.Equal(t, ethcommon.BytesToHash(user1.Bytes()), stakedLog.Topics[1])

	amount, lastStakeTime, _ := e.stakeOf(t, user1)
	assert.Equal(t, "50", amount.String())
	assert.EqualValues(t, 1000, lastStakeTime)
	assert.Equal(t, "50", e.balance(t, e.stakeToken, user1).String())
	assert.Equal(t, "50", e.balance(t, e.stakeToken, e.staking.Address).String())

	err = e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(10))
	})
	assert.ErrorIs(t, err, ErrCooldownActive)
	assert.Equal(t, "Chill for a moment!", err.Error())

	e.nvm.Sleep(repo.DefaultStakeTime - 1)
	err = e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(10))
	})
	assert.ErrorIs(t, err, ErrCooldownActive)

	e.nvm.Sleep(1)
	err = e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(10))
	})
	require.Nil(t, err)

	amount, lastStakeTime, _ = e.stakeOf(t, user1)
	assert.Equal(t, "60", amount.String())
	assert.EqualValues(t, 1000+repo.DefaultStakeTime, lastStakeTime)
	assert.Equal(t, "40", e.balance(t, e.stakeToken, user1).String())

	// cooldown is per principal
	e.approve(t, e.stakeToken, user2, 100)
	err = e.run(user2, func() error {
		return e.staking.Stake(big.NewInt(100))
	})
	require.Nil(t, err)
	assert.Equal(t, "160", e.balance(t, e.stakeToken, e.staking.Address).String())
}

func TestStakeContract_Unstake(t *testing.T) {
	e := prepareEnv(t, nil)

	err := e.run(user1, e.staking.Unstake)
	assert.ErrorIs(t, err, ErrNothingStaked)
	assert.Equal(t, "Can't unstake nothing!", err.Error())

	e.approve(t, e.stakeToken, user1, 100)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	}))

	require.Nil(t, e.run(user1, e.staking.Unstake))
	assert.Equal(t, "100", e.balance(t, e.stakeToken, user1).String())
	assert.Equal(t, "0", e.balance(t, e.stakeToken, e.staking.Address).String())

	amount, lastStakeTime, lastClaimTime := e.stakeOf(t, user1)
	assert.Equal(t, "0", amount.String())
	assert.EqualValues(t, 1000, lastStakeTime)
	assert.EqualValues(t, 1000, lastClaimTime)

	err = e.run(user1, e.staking.Unstake)
	assert.ErrorIs(t, err, ErrNothingStaked)

	// unstake keeps the stake cooldown running
	err = e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	})
	assert.ErrorIs(t, err, ErrCooldownActive)
}

func TestStakeContract_ClaimScenario(t *testing.T) {
	e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
		genesis.Staking.ClaimTime = 15
		genesis.Staking.RewardsTime = 15
		genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(1000)
	})

	e.approve(t, e.stakeToken, user1, 50)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	}))

	claimAfter := func(seconds uint64, expected int64) {
		e.nvm.Sleep(seconds)
		before := e.balance(t, e.rewardsToken, user1)
		require.Nil(t, e.run(user1, e.staking.Claim))
		after := e.balance(t, e.rewardsToken, user1)
		assert.Equal(t, big.NewInt(expected).String(), new(big.Int).Sub(after, before).String())
	}

	claimAfter(15, 10)
	claimAfter(15, 10)
	claimAfter(60, 40)

	e.nvm.Sleep(15)
	require.Nil(t, e.run(owner, func() error {
		return e.staking.SetClaimTime(60)
	}))
	err := e.run(user1, e.staking.Claim)
	assert.ErrorIs(t, err, ErrCooldownActive)

	claimAfter(45, 40)

	require.Nil(t, e.run(owner, func() error {
		return e.staking.SetRewardsTime(60)
	}))
	claimAfter(60, 10)

	require.Nil(t, e.run(owner, func() error {
		return e.staking.SetRewardsPercent(5, -2)
	}))
	claimAfter(6000, 2)

	assert.Equal(t, "888", e.rewardsSupply(t).String())
	assert.Equal(t, "888", e.balance(t, e.rewardsToken, e.staking.Address).String())
	_, _, lastClaimTime := e.stakeOf(t, user1)
	assert.EqualValues(t, e.nvm.BlockTimestamp, lastClaimTime)
}

func TestStakeContract_ClaimErrors(t *testing.T) {
	e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
		genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(1000)
	})

	e.nvm.Sleep(repo.DefaultClaimTime)
	err := e.run(user1, e.staking.Claim)
	assert.ErrorIs(t, err, ErrNothingStaked)

	e.approve(t, e.stakeToken, user1, 50)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	}))
	require.Nil(t, e.run(user1, e.staking.Claim))

	// lastClaimTime moved to 1010, one interval has passed but not the claim time
	e.nvm.Sleep(repo.DefaultClaimTime - repo.DefaultRewardsTime + 4)
	err = e.run(user1, e.staking.Claim)
	assert.ErrorIs(t, err, ErrCooldownActive)

	require.Nil(t, e.run(owner, func() error {
		return e.staking.SetClaimTime(0)
	}))
	require.Nil(t, e.run(owner, func() error {
		return e.staking.SetRewardsTime(100)
	}))
	// claim time is met but not a single interval
	err = e.run(user1, e.staking.Claim)
	assert.ErrorIs(t, err, ErrCooldownActive)
}

func TestStakeContract_ZeroRewardAdvancesClaimTime(t *testing.T) {
	e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
		genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(1000)
	})

	e.approve(t, e.stakeToken, user1, 1)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(1))
	}))

	e.nvm.Sleep(repo.DefaultClaimTime)
	require.Nil(t, e.run(user1, e.staking.Claim))
	require.Len(t, e.nvm.Logs, 1)
	assert.Equal(t, e.staking.EthAbi.Events["Claimed"].ID, e.nvm.Logs[0].Topics[0])

	_, _, lastClaimTime := e.stakeOf(t, user1)
	assert.EqualValues(t, 1000+repo.DefaultRewardsTime, lastClaimTime)
	assert.Equal(t, "10000", e.balance(t, e.rewardsToken, user1).String())
	assert.Equal(t, "1000", e.rewardsSupply(t).String())
}

func TestStakeContract_TruncationPerClaim(t *testing.T) {
	prepare := func(t *testing.T) *testEnv {
		e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
			genesis.Staking.ClaimTime = 10
			genesis.Staking.RewardsTime = 10
			genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(1000)
		})
		e.approve(t, e.stakeToken, user1, 3)
		require.Nil(t, e.run(user1, func() error {
			return e.staking.Stake(big.NewInt(3))
		}))
		return e
	}

	t.Run("split", func(t *testing.T) {
		e := prepare(t)
		// 3 x 20% is 0.6 per interval, truncated to 0 on every claim
		for i := 0; i < 5; i++ {
			e.nvm.Sleep(10)
			require.Nil(t, e.run(user1, e.staking.Claim))
		}
		_, _, lastClaimTime := e.stakeOf(t, user1)
		assert.EqualValues(t, 1050, lastClaimTime)
		assert.Equal(t, "10000", e.balance(t, e.rewardsToken, user1).String())
		assert.Equal(t, "1000", e.rewardsSupply(t).String())
	})

	t.Run("batch", func(t *testing.T) {
		e := prepare(t)
		e.nvm.Sleep(50)
		require.Nil(t, e.run(user1, e.staking.Claim))
		_, _, lastClaimTime := e.stakeOf(t, user1)
		assert.EqualValues(t, 1050, lastClaimTime)
		assert.Equal(t, "10003", e.balance(t, e.rewardsToken, user1).String())
		assert.Equal(t, "997", e.rewardsSupply(t).String())
	})
}

func TestStakeContract_LateStakeCountsFromInitTime(t *testing.T) {
	e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
		genesis.Staking.ClaimTime = 10
		genesis.Staking.RewardsTime = 10
		genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(1000)
	})

	e.approve(t, e.stakeToken, user1, 50)
	e.nvm.Sleep(100)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	}))
	_, lastStakeTime, lastClaimTime := e.stakeOf(t, user1)
	assert.EqualValues(t, 1100, lastStakeTime)
	assert.EqualValues(t, 1000, lastClaimTime)

	// 11 intervals since init time, 10 of them before the stake
	e.nvm.Sleep(10)
	require.Nil(t, e.run(user1, e.staking.Claim))
	assert.Equal(t, "10110", e.balance(t, e.rewardsToken, user1).String())
	assert.Equal(t, "890", e.rewardsSupply(t).String())
}

func TestStakeContract_InsufficientRewards(t *testing.T) {
	e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
		genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(5)
	})

	e.approve(t, e.stakeToken, user1, 50)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	}))

	e.nvm.Sleep(repo.DefaultClaimTime)
	err := e.run(user1, e.staking.Claim)
	assert.ErrorIs(t, err, ErrInsufficientRewards)
	_, _, lastClaimTime := e.stakeOf(t, user1)
	assert.EqualValues(t, 1000, lastClaimTime)
	assert.Equal(t, "5", e.rewardsSupply(t).String())

	e.approve(t, e.rewardsToken, owner, 100)
	require.Nil(t, e.run(owner, func() error {
		return e.staking.AddRewards(big.NewInt(100))
	}))
	assert.Equal(t, "105", e.rewardsSupply(t).String())
	assert.Equal(t, "9900", e.balance(t, e.rewardsToken, owner).String())

	require.Nil(t, e.run(user1, e.staking.Claim))
	assert.Equal(t, "95", e.rewardsSupply(t).String())
	assert.Equal(t, "10010", e.balance(t, e.rewardsToken, user1).String())

	require.Nil(t, e.run(owner, e.staking.ReclaimRewards))
	assert.Equal(t, "0", e.rewardsSupply(t).String())
	assert.Equal(t, "9995", e.balance(t, e.rewardsToken, owner).String())
	assert.Equal(t, "0", e.balance(t, e.rewardsToken, e.staking.Address).String())

	// reclaiming an empty treasury is a no-op
	require.Nil(t, e.run(owner, e.staking.ReclaimRewards))
}

func TestStakeContract_PendingRewards(t *testing.T) {
	e := prepareEnv(t, nil)

	pending := func() (string, uint64) {
		var (
			reward    *big.Int
			intervals uint64
		)
		e.nvm.Call(e.staking, user1, func() {
			var err error
			reward, intervals, err = e.staking.PendingRewards(user1)
			require.Nil(t, err)
		})
		return reward.String(), intervals
	}

	e.nvm.Sleep(100)
	reward, intervals := pending()
	assert.Equal(t, "0", reward)
	assert.EqualValues(t, 0, intervals)

	e.approve(t, e.stakeToken, user1, 50)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	}))
	reward, intervals = pending()
	assert.Equal(t, "100", reward)
	assert.EqualValues(t, 10, intervals)
}

func TestStakeContract_OwnerGuard(t *testing.T) {
	e := prepareEnv(t, nil)

	ownerCalls := map[string]func() error{
		"addRewards": func() error {
			return e.staking.AddRewards(big.NewInt(1))
		},
		"reclaimRewards": e.staking.ReclaimRewards,
		"setStakeTime": func() error {
			return e.staking.SetStakeTime(1)
		},
		"setClaimTime": func() error {
			return e.staking.SetClaimTime(1)
		},
		"setRewardsTime": func() error {
			return e.staking.SetRewardsTime(1)
		},
		"setRewardsPercent": func() error {
			return e.staking.SetRewardsPercent(1, 1)
		},
	}
	for name, call := range ownerCalls {
		err := e.run(user1, call)
		assert.ErrorIs(t, err, ErrNotOwner, name)
	}

	err := e.run(owner, func() error {
		return e.staking.SetRewardsTime(0)
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	err = e.run(owner, func() error {
		return e.staking.SetRewardsPercent(-1, 0)
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	err = e.run(owner, func() error {
		return e.staking.AddRewards(big.NewInt(0))
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	require.Nil(t, e.run(owner, func() error {
		return e.staking.SetStakeTime(0)
	}))
	require.Len(t, e.nvm.Logs, 1)
	require.Nil(t, e.run(owner, func() error {
		return e.staking.SetRewardsPercent(15, -1)
	}))
	require.Len(t, e.nvm.Logs, 2)

	e.nvm.Call(e.staking, user1, func() {
		stakeTime, err := e.staking.StakeTime()
		assert.Nil(t, err)
		assert.EqualValues(t, 0, stakeTime)
		mantissa, exponent, err := e.staking.RewardsPercent()
		assert.Nil(t, err)
		assert.EqualValues(t, 15, mantissa)
		assert.EqualValues(t, -1, exponent)
	})
}

func TestStakeContract_TransferFailureIsAtomic(t *testing.T) {
	e := prepareEnv(t, func(genesis *repo.GenesisConfig) {
		genesis.Staking.InitialRewardsSupply = repo.CoinNumberByUint64(1000)
	})

	ctrl := gomock.NewController(t)
	mockToken := mock_token.NewMockIToken(ctrl)
	e.staking.TokenLoader = func(ctx *common.VMContext, addr ethcommon.Address) (token.IToken, error) {
		assert.Equal(t, e.staking.Address, ctx.From)
		return mockToken, nil
	}

	mockToken.EXPECT().TransferFrom(user1, e.staking.Address, gomock.Any()).Return(false, errors.New("frozen")).Times(1)
	err := e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	})
	assert.ErrorIs(t, err, ErrTransferFailed)
	amount, lastStakeTime, _ := e.stakeOf(t, user1)
	assert.Equal(t, "0", amount.String())
	assert.EqualValues(t, 0, lastStakeTime)

	mockToken.EXPECT().TransferFrom(user1, e.staking.Address, gomock.Any()).Return(true, nil).Times(1)
	require.Nil(t, e.run(user1, func() error {
		return e.staking.Stake(big.NewInt(50))
	}))

	e.nvm.Sleep(repo.DefaultClaimTime)
	mockToken.EXPECT().Transfer(user1, gomock.Any()).Return(false, nil).Times(1)
	err = e.run(user1, e.staking.Claim)
	assert.ErrorIs(t, err, ErrTransferFailed)
	_, _, lastClaimTime := e.stakeOf(t, user1)
	assert.EqualValues(t, 1000, lastClaimTime)
	assert.Equal(t, "1000", e.rewardsSupply(t).String())

	mockToken.EXPECT().Transfer(user1, gomock.Any()).Return(false, errors.New("frozen")).Times(1)
	err = e.run(user1, e.staking.Unstake)
	assert.ErrorIs(t, err, ErrTransferFailed)
	amount, _, _ = e.stakeOf(t, user1)
	assert.Equal(t, "50", amount.String())

	e.staking.TokenLoader = func(ctx *common.VMContext, addr ethcommon.Address) (token.IToken, error) {
		return nil, errors.New("not deployed")
	}
	err = e.run(user1, e.staking.Unstake)
	assert.NotNil(t, err)
}
