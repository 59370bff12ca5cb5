package system

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/executor/system/staking"
	"github.com/axiomesh/axiom-staking/internal/executor/system/token"
	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/packer"
	"github.com/axiomesh/axiom-staking/pkg/repo"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

var (
	ErrNotExistSystemContract         = errors.New("not exist this system contract")
	ErrNotExistMethodName             = errors.New("not exist method name of this system contract")
	ErrNotImplementFuncSystemContract = errors.New("not implement the function for this system contract")
	ErrInvalidInput                   = errors.New("invalid input of system contract method")
)

// the order also decides the genesis init order, tokens must exist before staking
var systemContractConstructs = []common.SystemContractConstruct{
	token.StakeTokenBuildConfig,
	token.RewardsTokenBuildConfig,
	staking.BuildConfig,
}

// NativeVM handle abi decoding for parameters and abi encoding for return data
type NativeVM struct {
	logger logrus.FieldLogger

	// contract address mapping to contract build config
	contracts map[ethcommon.Address]common.SystemContractConstruct
}

func New() *NativeVM {
	nvm := &NativeVM{
		logger:    loggers.Logger(loggers.SystemContract),
		contracts: make(map[ethcommon.Address]common.SystemContractConstruct),
	}

	// deploy all system contract
	for _, construct := range systemContractConstructs {
		nvm.Deploy(construct)
	}
	return nvm
}

func (nvm *NativeVM) Deploy(construct common.SystemContractConstruct) {
	addr := construct.ContractAddress()
	// check system contract range
	if !common.IsSystemContractAddress(addr) {
		panic(fmt.Sprintf("this system contract %s is out of range", addr))
	}
	if _, ok := nvm.contracts[addr]; ok {
		panic("deploy system contract repeated")
	}
	nvm.contracts[addr] = construct
}

// Run calls the method selected by data on the contract at to, the return values are abi encoded.
// Errors returned by the contract are turned into reverts carrying the error message.
func (nvm *NativeVM) Run(ctx *common.VMContext, to ethcommon.Address, data []byte) (execResult []byte, execErr error) {
	defer func() {
		if err := recover(); err != nil {
			nvm.logger.Errorf("system contract %s panic: %v", to, err)
			execErr = packer.PackRevertReason(fmt.Sprintf("system contract panic: %v", err))
		}
	}()

	construct, ok := nvm.contracts[to]
	if !ok {
		return nil, ErrNotExistSystemContract
	}
	if len(data) < 4 {
		return nil, ErrNotExistMethodName
	}
	method, err := construct.ContractABI().MethodById(data[:4])
	if err != nil {
		return nil, errors.Wrap(ErrNotExistMethodName, err.Error())
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "unpack %s: %s", method.Name, err)
	}

	contractInstance := construct.BuildContract(ctx)

	// capitalize the first letter of a function
	funcName := strings.ToUpper(method.Name[:1]) + method.Name[1:]
	nvm.logger.Debugf("run system contract %s method name: %s", construct.ContractName(), funcName)
	fn := reflect.ValueOf(contractInstance).MethodByName(funcName)
	if !fn.IsValid() {
		return nil, ErrNotImplementFuncSystemContract
	}
	if fn.Type().NumIn() != len(args) {
		return nil, errors.Wrapf(ErrInvalidInput, "method %s expects %d args, got %d", method.Name, fn.Type().NumIn(), len(args))
	}
	inputs := lo.Map(args, func(arg any, _ int) reflect.Value {
		return reflect.ValueOf(arg)
	})

	// maybe panic when inputs mismatch, but we recover
	results := fn.Call(inputs)

	// the last result is always the error
	if len(results) == 0 {
		return nil, nil
	}
	if errValue := results[len(results)-1]; !errValue.IsNil() {
		returnErr := errValue.Interface().(error)
		nvm.logger.WithFields(logrus.Fields{
			"contract": construct.ContractName(),
			"method":   method.Name,
			"from":     ctx.From,
		}).Debugf("system contract reverted: %s", returnErr)
		return nil, toRevertError(returnErr)
	}

	returnRes := lo.Map(results[:len(results)-1], func(result reflect.Value, _ int) any {
		return result.Interface()
	})
	nvm.logger.Debugf("Contract addr: %s, method name: %s, return result: %+v", to, method.Name, returnRes)
	if len(method.Outputs) == 0 {
		return nil, nil
	}
	return method.Outputs.Pack(returnRes...)
}

func toRevertError(err error) error {
	var revertErr *packer.RevertError
	if errors.As(err, &revertErr) {
		return revertErr
	}
	return packer.PackRevertReason(err.Error())
}

// IsSystemContract judge if it is system contract
// return true if system contract, false if not
func (nvm *NativeVM) IsSystemContract(addr ethcommon.Address) bool {
	_, ok := nvm.contracts[addr]
	return ok
}

// ContractABI returns the abi of the system contract at addr.
func (nvm *NativeVM) ContractABI(addr ethcommon.Address) (*abi.ABI, error) {
	construct, ok := nvm.contracts[addr]
	if !ok {
		return nil, ErrNotExistSystemContract
	}
	return construct.ContractABI(), nil
}

// Constructs returns all deployed system contracts ordered by address.
func (nvm *NativeVM) Constructs() []common.SystemContractConstruct {
	constructs := lo.Values(nvm.contracts)
	sort.Slice(constructs, func(i, j int) bool {
		return constructs[i].ContractAddress().Cmp(constructs[j].ContractAddress()) < 0
	})
	return constructs
}

// PackInput builds the call data of a method of the contract at addr
func (nvm *NativeVM) PackInput(addr ethcommon.Address, methodName string, args ...any) ([]byte, error) {
	contractABI, err := nvm.ContractABI(addr)
	if err != nil {
		return nil, err
	}
	return contractABI.Pack(methodName, args...)
}

// UnpackOutputArgs unpack the output arguments by method name
func (nvm *NativeVM) UnpackOutputArgs(addr ethcommon.Address, methodName string, packed []byte) ([]any, error) {
	contractABI, err := nvm.ContractABI(addr)
	if err != nil {
		return nil, err
	}
	method, ok := contractABI.Methods[methodName]
	if !ok {
		return nil, errors.Errorf("system contract abi: could not locate named method: %s", methodName)
	}
	return method.Outputs.Unpack(packed)
}

// DecodeLog returns the event name and arguments of a log emitted by a system contract.
func (nvm *NativeVM) DecodeLog(log *types.EvmLog) (string, map[string]any, error) {
	contractABI, err := nvm.ContractABI(log.Address)
	if err != nil {
		return "", nil, err
	}
	if len(log.Topics) == 0 {
		return "", nil, errors.New("anonymous event")
	}
	event, err := contractABI.EventByID(log.Topics[0])
	if err != nil {
		return "", nil, err
	}

	args := make(map[string]any)
	if err := event.Inputs.NonIndexed().UnpackIntoMap(args, log.Data); err != nil {
		return "", nil, errors.Wrapf(err, "unpack event %s", event.Name)
	}
	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
		return "", nil, errors.Wrapf(err, "parse topics of event %s", event.Name)
	}
	return event.Name, args, nil
}

// InitGenesisData deploys the state of all system contracts at the genesis block.
func (nvm *NativeVM) InitGenesisData(genesis *repo.GenesisConfig, lg ledger.StateLedger, timestamp uint64) error {
	ctx := &common.VMContext{
		StateLedger:    lg,
		BlockNumber:    1,
		BlockTimestamp: timestamp,
		CallFromSystem: true,
	}
	for _, construct := range systemContractConstructs {
		if err := construct.BuildContract(ctx).GenesisInit(genesis); err != nil {
			return errors.Wrapf(err, "init genesis of system contract %s", construct.ContractName())
		}
		nvm.logger.WithFields(logrus.Fields{
			"contract": construct.ContractName(),
			"address":  construct.ContractAddress(),
		}).Info("System contract initialized")
	}
	return nil
}
