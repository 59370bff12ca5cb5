package packer

import (
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/axiomesh/axiom-staking/pkg/types"
)

// revertSelector is the selector of the solidity builtin Error(string)
var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

var revertReasonArgs = func() abi.Arguments {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: stringType}}
}()

// Event is implemented by the event structs of the contract bindings.
type Event interface {
	Pack(abi abi.ABI) (*types.EvmLog, error)
}

// PackEvent builds the log of event from eventStruct, a pointer to a struct whose
// fields are the camel cased event inputs.
func PackEvent(eventStruct any, event abi.Event) (*types.EvmLog, error) {
	if eventStruct == nil {
		return nil, errors.New("event struct is nil")
	}
	v := reflect.ValueOf(eventStruct).Elem()
	field := func(input abi.Argument) any {
		return v.FieldByName(abi.ToCamelCase(input.Name)).Interface()
	}

	// topic 0 is the event id, the indexed inputs follow in order
	topicArgs := [][]any{{event.ID}}
	var data []any
	for _, input := range event.Inputs {
		if input.Indexed {
			topicArgs = append(topicArgs, []any{field(input)})
			continue
		}
		data = append(data, field(input))
	}

	topics, err := abi.MakeTopics(topicArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "make topics of event %s", event.Name)
	}
	packed, err := event.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack data of event %s", event.Name)
	}

	return &types.EvmLog{
		Topics: lo.Map(topics, func(t []common.Hash, _ int) common.Hash {
			return t[0]
		}),
		Data: packed,
	}, nil
}

// RevertError is a reverted execution. Data is the abi encoded Error(string) of Reason.
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	return e.Reason
}

func (e *RevertError) Unwrap() error {
	return vm.ErrExecutionReverted
}

// PackRevertReason encodes reason the way solidity require(cond, reason) does,
// the data can be decoded by abi.UnpackRevert.
func PackRevertReason(reason string) error {
	packed, err := revertReasonArgs.Pack(reason)
	if err != nil {
		return err
	}
	return &RevertError{
		Reason: reason,
		Data:   append(common.CopyBytes(revertSelector), packed...),
	}
}
