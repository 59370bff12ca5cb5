package staking

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAmount       = errors.New("Can't stake nothing!")
	ErrNothingStaked       = errors.New("Can't unstake nothing!")
	ErrCooldownActive      = errors.New("Chill for a moment!")
	ErrNotOwner            = errors.New("You're not owner!")
	ErrTransferFailed      = errors.New("token transfer failed")
	ErrInsufficientRewards = errors.New("not enough rewards supply")
)

// wrapTransfer turns a failed token call into ErrTransferFailed, keeping the token error matchable.
// pkg/errors cannot wrap two errors, so fmt.Errorf is used here.
func wrapTransfer(ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if !ok {
		return ErrTransferFailed
	}
	return nil
}
