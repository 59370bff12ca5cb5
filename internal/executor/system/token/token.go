package token

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/executor/system/token/solidity/erc20"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

const (
	metaStorageKey        = "meta"
	totalSupplyStorageKey = "totalSupply"
	balancesStorageKey    = "balances"
	allowancesStorageKey  = "allowances"
)

var StakeTokenBuildConfig = &common.SystemContractBuildConfig[*Token]{
	Name:    "token_stake",
	Address: common.StakeTokenContractAddr,
	AbiStr:  erc20.ABI,
	Constructor: func(systemContractBase common.SystemContractBase) *Token {
		return &Token{
			SystemContractBase: systemContractBase,
		}
	},
}

var RewardsTokenBuildConfig = &common.SystemContractBuildConfig[*Token]{
	Name:    "token_rewards",
	Address: common.RewardsTokenContractAddr,
	AbiStr:  erc20.ABI,
	Constructor: func(systemContractBase common.SystemContractBase) *Token {
		return &Token{
			SystemContractBase: systemContractBase,
		}
	},
}

var (
	_ erc20.ERC20 = (*Token)(nil)
	_ IToken      = (*Token)(nil)
)

// Load builds the token deployed at addr.
func Load(ctx *common.VMContext, addr ethcommon.Address) (IToken, error) {
	switch addr {
	case StakeTokenBuildConfig.ContractAddress():
		return StakeTokenBuildConfig.Build(ctx), nil
	case RewardsTokenBuildConfig.ContractAddress():
		return RewardsTokenBuildConfig.Build(ctx), nil
	default:
		return nil, errors.Errorf("no token deployed at %s", addr)
	}
}

type Meta struct {
	Name     string
	Symbol   string
	Decimals uint8
	Admin    ethcommon.Address
}

type allowanceKey struct {
	owner   ethcommon.Address
	spender ethcommon.Address
}

// Token is an ERC20 token whose balances live in the state of the contract account.
type Token struct {
	common.SystemContractBase

	meta        *common.VMSlot[Meta]
	totalSupply *common.VMSlot[*big.Int]
	balances    *common.VMMap[ethcommon.Address, *big.Int]
	allowances  *common.VMMap[allowanceKey, *big.Int]
}

func (t *Token) GenesisInit(genesis *repo.GenesisConfig) error {
	tokenConfig := genesis.StakeToken
	balanceOf := func(account *repo.Account) *big.Int {
		return account.StakeBalance.ToBigInt()
	}
	if t.Address == RewardsTokenBuildConfig.ContractAddress() {
		tokenConfig = genesis.RewardsToken
		balanceOf = func(account *repo.Account) *big.Int {
			return account.RewardsBalance.ToBigInt()
		}
	}

	if err := t.meta.Put(Meta{
		Name:     tokenConfig.Name,
		Symbol:   tokenConfig.Symbol,
		Decimals: tokenConfig.Decimals,
		Admin:    ethcommon.HexToAddress(tokenConfig.Admin),
	}); err != nil {
		return err
	}
	if err := t.totalSupply.Put(big.NewInt(0)); err != nil {
		return err
	}

	for _, account := range genesis.Accounts {
		if err := t.mint(ethcommon.HexToAddress(account.Address), balanceOf(account)); err != nil {
			return err
		}
	}

	// the staking contract holds the initial rewards supply
	if t.Address == RewardsTokenBuildConfig.ContractAddress() {
		if err := t.mint(ethcommon.HexToAddress(common.StakingContractAddr), genesis.Staking.InitialRewardsSupply.ToBigInt()); err != nil {
			return err
		}
	}
	return nil
}

func (t *Token) SetContext(ctx *common.VMContext) {
	t.SystemContractBase.SetContext(ctx)

	t.meta = common.NewVMSlot[Meta](t.StateAccount, metaStorageKey)
	t.totalSupply = common.NewVMSlot[*big.Int](t.StateAccount, totalSupplyStorageKey)
	t.balances = common.NewVMMap[ethcommon.Address, *big.Int](t.StateAccount, balancesStorageKey, func(key ethcommon.Address) string {
		return key.String()
	})
	t.allowances = common.NewVMMap[allowanceKey, *big.Int](t.StateAccount, allowancesStorageKey, func(key allowanceKey) string {
		return fmt.Sprintf("%s_%s", key.owner, key.spender)
	})
}

func (t *Token) Name() (string, error) {
	meta, err := t.meta.MustGet()
	return meta.Name, err
}

func (t *Token) Symbol() (string, error) {
	meta, err := t.meta.MustGet()
	return meta.Symbol, err
}

func (t *Token) Decimals() (uint8, error) {
	meta, err := t.meta.MustGet()
	return meta.Decimals, err
}

func (t *Token) Admin() (ethcommon.Address, error) {
	meta, err := t.meta.MustGet()
	return meta.Admin, err
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.MustGet()
}

func (t *Token) BalanceOf(account ethcommon.Address) (*big.Int, error) {
	return getOrZero(t.balances, account)
}

func (t *Token) Allowance(owner, spender ethcommon.Address) (*big.Int, error) {
	return getOrZero(t.allowances, allowanceKey{owner: owner, spender: spender})
}

func (t *Token) Approve(spender ethcommon.Address, value *big.Int) (bool, error) {
	if err := t.approve(t.Ctx.From, spender, value); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Token) approve(owner, spender ethcommon.Address, value *big.Int) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if owner == (ethcommon.Address{}) || spender == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	if err := t.allowances.Put(allowanceKey{owner: owner, spender: spender}, value); err != nil {
		return err
	}
	t.EmitEvent(&erc20.EventApproval{
		Owner:   owner,
		Spender: spender,
		Value:   value,
	})
	return nil
}

func (t *Token) Transfer(to ethcommon.Address, value *big.Int) (bool, error) {
	if err := t.transfer(t.Ctx.From, to, value); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Token) TransferFrom(from, to ethcommon.Address, value *big.Int) (bool, error) {
	if err := checkValue(value); err != nil {
		return false, err
	}
	// get allowance for <from, msg.sender>
	allowance, err := t.Allowance(from, t.Ctx.From)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(value) < 0 {
		return false, ErrInsufficientAllowance
	}
	if err := t.transfer(from, to, value); err != nil {
		return false, err
	}
	if err := t.approve(from, t.Ctx.From, new(big.Int).Sub(allowance, value)); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Token) transfer(from, to ethcommon.Address, value *big.Int) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if from == (ethcommon.Address{}) || to == (ethcommon.Address{}) {
		return ErrZeroAddress
	}

	fromBalance, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(value) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.balances.Put(from, new(big.Int).Sub(fromBalance, value)); err != nil {
		return err
	}

	// read after the debit, from may equal to
	toBalance, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Put(to, new(big.Int).Add(toBalance, value)); err != nil {
		return err
	}

	t.Logger.Debugf("transfer %s from %s to %s", value, from, to)
	t.EmitEvent(&erc20.EventTransfer{
		From:  from,
		To:    to,
		Value: value,
	})
	return nil
}

func (t *Token) Mint(to ethcommon.Address, value *big.Int) error {
	if err := t.checkAdmin(); err != nil {
		return err
	}
	if to == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	return t.mint(to, value)
}

func (t *Token) mint(to ethcommon.Address, value *big.Int) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if value.Sign() == 0 {
		return nil
	}

	if err := t.changeTotalSupply(value, true); err != nil {
		return err
	}
	balance, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Put(to, new(big.Int).Add(balance, value)); err != nil {
		return err
	}

	t.EmitEvent(&erc20.EventTransfer{
		From:  ethcommon.Address{},
		To:    to,
		Value: value,
	})
	return nil
}

// Burn destroys value tokens of the admin.
func (t *Token) Burn(value *big.Int) error {
	if err := t.checkAdmin(); err != nil {
		return err
	}
	if err := checkValue(value); err != nil {
		return err
	}

	from := t.Ctx.From
	balance, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if balance.Cmp(value) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.changeTotalSupply(value, false); err != nil {
		return err
	}
	if err := t.balances.Put(from, new(big.Int).Sub(balance, value)); err != nil {
		return err
	}

	t.EmitEvent(&erc20.EventTransfer{
		From:  from,
		To:    ethcommon.Address{},
		Value: value,
	})
	return nil
}

func (t *Token) changeTotalSupply(amount *big.Int, increase bool) error {
	totalSupply, err := t.totalSupply.MustGet()
	if err != nil {
		return err
	}

	if increase {
		totalSupply = new(big.Int).Add(totalSupply, amount)
	} else {
		totalSupply = new(big.Int).Sub(totalSupply, amount)
		if totalSupply.Sign() < 0 {
			return ErrBurnExceedsSupply
		}
	}
	return t.totalSupply.Put(totalSupply)
}

func (t *Token) checkAdmin() error {
	if t.Ctx.CallFromSystem {
		return nil
	}
	admin, err := t.Admin()
	if err != nil {
		return err
	}
	if t.Ctx.From != admin {
		return ErrNotAdmin
	}
	return nil
}

func checkValue(value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return ErrInvalidValue
	}
	return nil
}

func getOrZero[K any](m *common.VMMap[K, *big.Int], key K) (*big.Int, error) {
	v, err := m.GetOrDefault(key, zero)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return zero(), nil
	}
	return v, nil
}

func zero() *big.Int {
	return big.NewInt(0)
}
