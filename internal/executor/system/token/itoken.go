package token

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -destination mock_token/mock_token.go -package mock_token -source itoken.go

// IToken is the part of an ERC20 token the staking contract relies on,
// msg.sender of every call is the caller contract.
type IToken interface {
	// BalanceOf Returns the balance of the account
	BalanceOf(account ethcommon.Address) (*big.Int, error)

	// Allowance Returns the Value which `spender` is still allowed to withdraw from `owner`
	Allowance(owner, spender ethcommon.Address) (*big.Int, error)

	// Transfer transfers `value` tokens from the caller to `to`
	Transfer(to ethcommon.Address, value *big.Int) (bool, error)

	// TransferFrom moves `value` tokens from `from` to `to` using the allowance mechanism,
	// 'value' is then deducted from the caller's allowance.
	TransferFrom(from, to ethcommon.Address, value *big.Int) (bool, error)
}
