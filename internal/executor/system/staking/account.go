package staking

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/ledger"
)

const accountsStorageKey = "accounts"

// Account is the staking position of one principal.
type Account struct {
	StakedAmount *big.Int `json:"staked_amount"`

	// 0 before the first stake
	LastStakeTime uint64 `json:"last_stake_time"`

	// only moves forward on claims
	LastClaimTime uint64 `json:"last_claim_time"`
}

type accountBook struct {
	accounts *common.VMMap[ethcommon.Address, *Account]
}

func newAccountBook(stateAccount ledger.IAccount) *accountBook {
	return &accountBook{
		accounts: common.NewVMMap[ethcommon.Address, *Account](stateAccount, accountsStorageKey, func(key ethcommon.Address) string {
			return key.String()
		}),
	}
}

// load returns the account of addr, an unknown principal starts at initTime with nothing staked.
// A late first stake therefore accrues every interval since initTime on its first claim.
func (b *accountBook) load(addr ethcommon.Address, initTime uint64) (*Account, error) {
	account, err := b.accounts.GetOrDefault(addr, func() *Account {
		return &Account{LastClaimTime: initTime}
	})
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &Account{LastClaimTime: initTime}
	}
	if account.StakedAmount == nil {
		account.StakedAmount = big.NewInt(0)
	}
	return account, nil
}

func (b *accountBook) save(addr ethcommon.Address, account *Account) error {
	return b.accounts.Put(addr, account)
}
