package token

import "github.com/pkg/errors"

// OpenZeppelin ERC20 revert strings
var (
	ErrInvalidValue          = errors.New("ERC20: invalid value")
	ErrInsufficientBalance   = errors.New("ERC20: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("ERC20: insufficient allowance")
	ErrZeroAddress           = errors.New("ERC20: zero address")
	ErrNotAdmin              = errors.New("ERC20: caller is not the token admin")
	ErrBurnExceedsSupply     = errors.New("ERC20: burn amount exceeds total supply")
)
