package packer

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-staking/pkg/types"
)

const transferAbi = `[{
	"anonymous": false,
	"inputs": [
		{"indexed": true, "name": "from", "type": "address"},
		{"indexed": true, "name": "to", "type": "address"},
		{"indexed": false, "name": "value", "type": "uint256"}
	],
	"name": "Transfer",
	"type": "event"
}]`

type transferEvent struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

func (e *transferEvent) Pack(abi abi.ABI) (*types.EvmLog, error) {
	return PackEvent(e, abi.Events["Transfer"])
}

func TestPackEvent(t *testing.T) {
	contractABI, err := abi.JSON(strings.NewReader(transferAbi))
	require.Nil(t, err)

	var ev Event = &transferEvent{
		From:  common.HexToAddress("0x1001"),
		To:    common.HexToAddress("0x1003"),
		Value: big.NewInt(250),
	}
	log, err := ev.Pack(contractABI)
	require.Nil(t, err)
	require.Len(t, log.Topics, 3)
	assert.Equal(t, contractABI.Events["Transfer"].ID, log.Topics[0])

	data, err := contractABI.Events["Transfer"].Inputs.NonIndexed().Unpack(log.Data)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(250), data[0])

	parsed := &transferEvent{}
	indexed := contractABI.Events["Transfer"].Inputs[:2]
	require.Nil(t, abi.ParseTopics(parsed, indexed, log.Topics[1:]))
	assert.Equal(t, common.HexToAddress("0x1001"), parsed.From)
	assert.Equal(t, common.HexToAddress("0x1003"), parsed.To)

	_, err = PackEvent(nil, contractABI.Events["Transfer"])
	assert.NotNil(t, err)
}

func TestPackRevertReason(t *testing.T) {
	err := PackRevertReason("Chill for a moment!")
	var revertErr *RevertError
	require.True(t, errors.As(err, &revertErr))
	assert.ErrorIs(t, err, vm.ErrExecutionReverted)
	assert.Equal(t, "Chill for a moment!", err.Error())

	reason, err := abi.UnpackRevert(revertErr.Data)
	require.Nil(t, err)
	assert.Equal(t, "Chill for a moment!", reason)
}
