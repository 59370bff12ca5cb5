package ledger

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	chainMetaKey    = "chain-meta"
	stateVersionKey = "state-version"
	receiptKey      = "receipt-"
	accountKey      = "account-"
	storageKey      = "storage-"
)

func compositeKey(prefix string, value any) []byte {
	return append([]byte(prefix), []byte(fmt.Sprintf("%v", value))...)
}

func compositeAccountKey(addr ethcommon.Address) []byte {
	return compositeKey(accountKey, addr.Hex())
}

func compositeStorageKey(addr ethcommon.Address, key []byte) []byte {
	return append(compositeKey(storageKey, addr.Hex()+"-"), key...)
}
