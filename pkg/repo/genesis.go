package repo

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type GenesisConfig struct {
	// unix seconds, 0 means the time the ledger is initialized
	Timestamp    uint64        `mapstructure:"timestamp" toml:"timestamp"`
	StakeToken   TokenConfig   `mapstructure:"stake_token" toml:"stake_token"`
	RewardsToken TokenConfig   `mapstructure:"rewards_token" toml:"rewards_token"`
	Staking      StakingConfig `mapstructure:"staking" toml:"staking"`
	Accounts     []*Account    `mapstructure:"accounts" toml:"accounts"`
}

type TokenConfig struct {
	Name     string `mapstructure:"name" toml:"name"`
	Symbol   string `mapstructure:"symbol" toml:"symbol"`
	Decimals uint8  `mapstructure:"decimals" toml:"decimals"`

	// the only account allowed to mint and burn
	Admin string `mapstructure:"admin" toml:"admin"`
}

type StakingConfig struct {
	Owner                  string      `mapstructure:"owner" toml:"owner"`
	StakeTime              uint64      `mapstructure:"stake_time" toml:"stake_time"`
	ClaimTime              uint64      `mapstructure:"claim_time" toml:"claim_time"`
	RewardsTime            uint64      `mapstructure:"rewards_time" toml:"rewards_time"`
	RewardsPercentMantissa int64       `mapstructure:"rewards_percent_mantissa" toml:"rewards_percent_mantissa"`
	RewardsPercentExponent int8        `mapstructure:"rewards_percent_exponent" toml:"rewards_percent_exponent"`
	InitialRewardsSupply   *CoinNumber `mapstructure:"initial_rewards_supply" toml:"initial_rewards_supply"`
}

type Account struct {
	Address        string      `mapstructure:"address" toml:"address"`
	StakeBalance   *CoinNumber `mapstructure:"stake_balance" toml:"stake_balance"`
	RewardsBalance *CoinNumber `mapstructure:"rewards_balance" toml:"rewards_balance"`
}

func DefaultGenesisConfig() *GenesisConfig {
	return &GenesisConfig{
		Timestamp: 0,
		StakeToken: TokenConfig{
			Name:     "TokenB",
			Symbol:   "TKB",
			Decimals: DefaultDecimals,
			Admin:    DefaultAdmin,
		},
		RewardsToken: TokenConfig{
			Name:     "TokenA",
			Symbol:   "TKA",
			Decimals: DefaultDecimals,
			Admin:    DefaultAdmin,
		},
		Staking: StakingConfig{
			Owner:                  DefaultAdmin,
			StakeTime:              DefaultStakeTime,
			ClaimTime:              DefaultClaimTime,
			RewardsTime:            DefaultRewardsTime,
			RewardsPercentMantissa: DefaultRewardsPercentMantissa,
			RewardsPercentExponent: DefaultRewardsPercentExponent,
			InitialRewardsSupply:   CoinNumberByUint64(0),
		},
		Accounts: lo.Map(DefaultAccounts, func(addr string, _ int) *Account {
			return &Account{
				Address:        addr,
				StakeBalance:   CoinNumberByUint64(100),
				RewardsBalance: CoinNumberByUint64(10000),
			}
		}),
	}
}

func (g *GenesisConfig) Validate() error {
	if !ethcommon.IsHexAddress(g.Staking.Owner) {
		return errors.Errorf("invalid staking owner address: %s", g.Staking.Owner)
	}
	for _, tc := range []TokenConfig{g.StakeToken, g.RewardsToken} {
		if !ethcommon.IsHexAddress(tc.Admin) {
			return errors.Errorf("invalid admin address of token %s: %s", tc.Symbol, tc.Admin)
		}
	}
	if g.Staking.RewardsTime == 0 {
		return errors.New("staking rewards_time must be positive")
	}
	if g.Staking.RewardsPercentMantissa < 0 {
		return errors.New("staking rewards_percent_mantissa must not be negative")
	}
	for _, account := range g.Accounts {
		if !ethcommon.IsHexAddress(account.Address) {
			return errors.Errorf("invalid genesis account address: %s", account.Address)
		}
	}
	return nil
}
