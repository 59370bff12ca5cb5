package staking

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/executor/system/staking/solidity/stake_contract"
	"github.com/axiomesh/axiom-staking/internal/executor/system/token"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

const configStorageKey = "config"

var BuildConfig = &common.SystemContractBuildConfig[*StakeContract]{
	Name:    "staking",
	Address: common.StakingContractAddr,
	AbiStr:  stake_contract.ABI,
	Constructor: func(systemContractBase common.SystemContractBase) *StakeContract {
		return &StakeContract{
			SystemContractBase: systemContractBase,
			TokenLoader:        token.Load,
		}
	},
}

var _ stake_contract.StakeContract = (*StakeContract)(nil)

// Config is the owner tunable configuration of the staking contract.
type Config struct {
	Owner        ethcommon.Address `json:"owner"`
	StakeToken   ethcommon.Address `json:"stake_token"`
	RewardsToken ethcommon.Address `json:"rewards_token"`

	// seconds between two stakes of one principal
	StakeTime uint64 `json:"stake_time"`

	// minimal seconds since the last claim
	ClaimTime uint64 `json:"claim_time"`

	// seconds of one accrual interval, never 0
	RewardsTime uint64 `json:"rewards_time"`

	RewardsPercent Percent `json:"rewards_percent"`

	// lastClaimTime of accounts created after genesis
	InitTime uint64 `json:"init_time"`
}

// StakeContract lets principals stake one token and accrue rewards paid in another.
type StakeContract struct {
	common.SystemContractBase

	// TokenLoader builds the token contracts called by the staking contract
	TokenLoader func(ctx *common.VMContext, addr ethcommon.Address) (token.IToken, error)

	config   *common.VMSlot[Config]
	accounts *accountBook
	treasury *treasury
}

func (s *StakeContract) GenesisInit(genesis *repo.GenesisConfig) error {
	percent := Percent{
		Mantissa: genesis.Staking.RewardsPercentMantissa,
		Exponent: genesis.Staking.RewardsPercentExponent,
	}
	if err := percent.Validate(); err != nil {
		return errors.Wrap(err, "invalid genesis rewards percent")
	}
	if genesis.Staking.RewardsTime == 0 {
		return errors.New("genesis rewards time must be positive")
	}

	if err := s.config.Put(Config{
		Owner:          ethcommon.HexToAddress(genesis.Staking.Owner),
		StakeToken:     ethcommon.HexToAddress(common.StakeTokenContractAddr),
		RewardsToken:   ethcommon.HexToAddress(common.RewardsTokenContractAddr),
		StakeTime:      genesis.Staking.StakeTime,
		ClaimTime:      genesis.Staking.ClaimTime,
		RewardsTime:    genesis.Staking.RewardsTime,
		RewardsPercent: percent,
		InitTime:       s.Ctx.BlockTimestamp,
	}); err != nil {
		return err
	}

	// the rewards token mints the same amount to this contract
	return s.treasury.supply.Put(genesis.Staking.InitialRewardsSupply.ToBigInt())
}

func (s *StakeContract) SetContext(ctx *common.VMContext) {
	s.SystemContractBase.SetContext(ctx)

	s.config = common.NewVMSlot[Config](s.StateAccount, configStorageKey)
	s.accounts = newAccountBook(s.StateAccount)
	s.treasury = newTreasury(s.StateAccount)
}

func (s *StakeContract) Stake(amount *big.Int) (err error) {
	defer func() { recordOperation("stake", err) }()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	cfg, err := s.config.MustGet()
	if err != nil {
		return err
	}
	principal := s.Ctx.From
	account, err := s.accounts.load(principal, cfg.InitTime)
	if err != nil {
		return err
	}

	now := s.Ctx.BlockTimestamp
	if account.LastStakeTime != 0 && (now < account.LastStakeTime || now-account.LastStakeTime < cfg.StakeTime) {
		return ErrCooldownActive
	}

	stakeToken, err := s.loadToken(cfg.StakeToken)
	if err != nil {
		return err
	}
	if err := wrapTransfer(stakeToken.TransferFrom(principal, s.Address, amount)); err != nil {
		return err
	}

	account.StakedAmount = new(big.Int).Add(account.StakedAmount, amount)
	account.LastStakeTime = now
	if err := s.accounts.save(principal, account); err != nil {
		return err
	}

	s.Logger.Debugf("%s staked %s, total %s", principal, amount, account.StakedAmount)
	s.EmitEvent(&stake_contract.EventStaked{
		Account: principal,
		Amount:  amount,
	})
	return nil
}

// Unstake withdraws the whole stake, the cooldown timestamps are kept.
func (s *StakeContract) Unstake() (err error) {
	defer func() { recordOperation("unstake", err) }()

	cfg, err := s.config.MustGet()
	if err != nil {
		return err
	}
	principal := s.Ctx.From
	account, err := s.accounts.load(principal, cfg.InitTime)
	if err != nil {
		return err
	}
	if account.StakedAmount.Sign() == 0 {
		return ErrNothingStaked
	}

	stakeToken, err := s.loadToken(cfg.StakeToken)
	if err != nil {
		return err
	}
	amount := account.StakedAmount
	if err := wrapTransfer(stakeToken.Transfer(principal, amount)); err != nil {
		return err
	}

	account.StakedAmount = big.NewInt(0)
	if err := s.accounts.save(principal, account); err != nil {
		return err
	}

	s.Logger.Debugf("%s unstaked %s", principal, amount)
	s.EmitEvent(&stake_contract.EventUnstaked{
		Account: principal,
		Amount:  amount,
	})
	return nil
}

// Claim pays every full rewards interval since lastClaimTime. A principal that never claimed counts from the
// contract init time, not from its first stake.
func (s *StakeContract) Claim() (err error) {
	defer func() { recordOperation("claim", err) }()

	cfg, err := s.config.MustGet()
	if err != nil {
		return err
	}
	principal := s.Ctx.From
	account, err := s.accounts.load(principal, cfg.InitTime)
	if err != nil {
		return err
	}

	reward, intervals, err := accrue(cfg, account, s.Ctx.BlockTimestamp)
	if err != nil {
		return err
	}

	supply, err := s.treasury.balance()
	if err != nil {
		return err
	}
	if reward.Cmp(supply) > 0 {
		return ErrInsufficientRewards
	}

	// a stake too small for one unit still consumes the intervals
	if reward.Sign() > 0 {
		rewardsToken, err := s.loadToken(cfg.RewardsToken)
		if err != nil {
			return err
		}
		if err := wrapTransfer(rewardsToken.Transfer(principal, reward)); err != nil {
			return err
		}
		if err := s.treasury.withdraw(reward); err != nil {
			return err
		}
	}

	account.LastClaimTime += intervals * cfg.RewardsTime
	if err := s.accounts.save(principal, account); err != nil {
		return err
	}

	rewardFloat, _ := new(big.Float).SetInt(reward).Float64()
	claimedRewardsCounter.Add(rewardFloat)
	s.Logger.Debugf("%s claimed %s for %d intervals", principal, reward, intervals)
	s.EmitEvent(&stake_contract.EventClaimed{
		Account:   principal,
		Reward:    reward,
		Intervals: intervals,
	})
	return nil
}

// accrue returns what a claim at now pays and how many intervals it consumes.
func accrue(cfg Config, account *Account, now uint64) (*big.Int, uint64, error) {
	if now < account.LastClaimTime {
		return nil, 0, ErrCooldownActive
	}
	elapsed := now - account.LastClaimTime
	intervals := elapsed / cfg.RewardsTime
	if elapsed < cfg.ClaimTime || intervals == 0 {
		return nil, 0, ErrCooldownActive
	}
	if account.StakedAmount.Sign() == 0 {
		return nil, 0, ErrNothingStaked
	}
	return cfg.RewardsPercent.Apply(account.StakedAmount, intervals), intervals, nil
}

func (s *StakeContract) AddRewards(amount *big.Int) (err error) {
	defer func() { recordOperation("addRewards", err) }()

	cfg, err := s.checkOwner()
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	rewardsToken, err := s.loadToken(cfg.RewardsToken)
	if err != nil {
		return err
	}
	if err := wrapTransfer(rewardsToken.TransferFrom(cfg.Owner, s.Address, amount)); err != nil {
		return err
	}
	if err := s.treasury.deposit(amount); err != nil {
		return err
	}

	s.EmitEvent(&stake_contract.EventRewardsAdded{
		Amount: amount,
	})
	return nil
}

// ReclaimRewards sends the whole rewards supply back to the owner.
func (s *StakeContract) ReclaimRewards() (err error) {
	defer func() { recordOperation("reclaimRewards", err) }()

	cfg, err := s.checkOwner()
	if err != nil {
		return err
	}
	supply, err := s.treasury.drain()
	if err != nil {
		return err
	}
	if supply.Sign() > 0 {
		rewardsToken, err := s.loadToken(cfg.RewardsToken)
		if err != nil {
			return err
		}
		if err := wrapTransfer(rewardsToken.Transfer(cfg.Owner, supply)); err != nil {
			return err
		}
	}

	s.EmitEvent(&stake_contract.EventRewardsReclaimed{
		Amount: supply,
	})
	return nil
}

func (s *StakeContract) SetStakeTime(time uint64) error {
	return s.updateConfig("stakeTime", new(big.Int).SetUint64(time), func(cfg *Config) error {
		cfg.StakeTime = time
		return nil
	})
}

func (s *StakeContract) SetClaimTime(time uint64) error {
	return s.updateConfig("claimTime", new(big.Int).SetUint64(time), func(cfg *Config) error {
		cfg.ClaimTime = time
		return nil
	})
}

func (s *StakeContract) SetRewardsTime(time uint64) error {
	return s.updateConfig("rewardsTime", new(big.Int).SetUint64(time), func(cfg *Config) error {
		if time == 0 {
			return ErrInvalidAmount
		}
		cfg.RewardsTime = time
		return nil
	})
}

func (s *StakeContract) SetRewardsPercent(mantissa int64, exponent int8) error {
	percent := Percent{Mantissa: mantissa, Exponent: exponent}
	if err := s.updateConfig("rewardsPercentMantissa", big.NewInt(mantissa), func(cfg *Config) error {
		if err := percent.Validate(); err != nil {
			return err
		}
		cfg.RewardsPercent = percent
		return nil
	}); err != nil {
		return err
	}

	s.EmitEvent(&stake_contract.EventConfigUpdated{
		Name:  "rewardsPercentExponent",
		Value: big.NewInt(int64(exponent)),
	})
	return nil
}

func (s *StakeContract) updateConfig(name string, value *big.Int, update func(cfg *Config) error) (err error) {
	defer func() { recordOperation("updateConfig", err) }()

	cfg, err := s.checkOwner()
	if err != nil {
		return err
	}
	if err := update(&cfg); err != nil {
		return err
	}
	if err := s.config.Put(cfg); err != nil {
		return err
	}

	s.Logger.Infof("staking config %s updated to %s", name, value)
	s.EmitEvent(&stake_contract.EventConfigUpdated{
		Name:  name,
		Value: value,
	})
	return nil
}

func (s *StakeContract) StakeOf(account ethcommon.Address) (*big.Int, uint64, uint64, error) {
	cfg, err := s.config.MustGet()
	if err != nil {
		return nil, 0, 0, err
	}
	a, err := s.accounts.load(account, cfg.InitTime)
	if err != nil {
		return nil, 0, 0, err
	}
	return a.StakedAmount, a.LastStakeTime, a.LastClaimTime, nil
}

// PendingRewards returns what a claim of account would pay now, (0, 0) if it would fail.
func (s *StakeContract) PendingRewards(account ethcommon.Address) (*big.Int, uint64, error) {
	cfg, err := s.config.MustGet()
	if err != nil {
		return nil, 0, err
	}
	a, err := s.accounts.load(account, cfg.InitTime)
	if err != nil {
		return nil, 0, err
	}
	reward, intervals, err := accrue(cfg, a, s.Ctx.BlockTimestamp)
	if err != nil {
		if errors.Is(err, ErrCooldownActive) || errors.Is(err, ErrNothingStaked) {
			return big.NewInt(0), 0, nil
		}
		return nil, 0, err
	}
	return reward, intervals, nil
}

func (s *StakeContract) RewardsSupply() (*big.Int, error) {
	return s.treasury.balance()
}

func (s *StakeContract) StakeTime() (uint64, error) {
	cfg, err := s.config.MustGet()
	return cfg.StakeTime, err
}

func (s *StakeContract) ClaimTime() (uint64, error) {
	cfg, err := s.config.MustGet()
	return cfg.ClaimTime, err
}

func (s *StakeContract) RewardsTime() (uint64, error) {
	cfg, err := s.config.MustGet()
	return cfg.RewardsTime, err
}

func (s *StakeContract) RewardsPercent() (int64, int8, error) {
	cfg, err := s.config.MustGet()
	return cfg.RewardsPercent.Mantissa, cfg.RewardsPercent.Exponent, err
}

func (s *StakeContract) Owner() (ethcommon.Address, error) {
	cfg, err := s.config.MustGet()
	return cfg.Owner, err
}

func (s *StakeContract) StakeToken() (ethcommon.Address, error) {
	cfg, err := s.config.MustGet()
	return cfg.StakeToken, err
}

func (s *StakeContract) RewardsToken() (ethcommon.Address, error) {
	cfg, err := s.config.MustGet()
	return cfg.RewardsToken, err
}

// getConfig returns the whole configuration, it is not part of the abi.
func (s *StakeContract) getConfig() (Config, error) {
	return s.config.MustGet()
}

func (s *StakeContract) checkOwner() (Config, error) {
	cfg, err := s.config.MustGet()
	if err != nil {
		return cfg, err
	}
	if s.Ctx.From != cfg.Owner {
		return cfg, ErrNotOwner
	}
	return cfg, nil
}

func (s *StakeContract) loadToken(addr ethcommon.Address) (token.IToken, error) {
	t, err := s.TokenLoader(s.CrossCallSystemContractContext(), addr)
	if err != nil {
		return nil, errors.Wrapf(err, "load token %s", addr)
	}
	return t, nil
}
