package common

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/packer"
)

type SystemContractBase struct {
	Ctx          *VMContext
	Logger       logrus.FieldLogger
	EthAbi       *abi.ABI
	Address      ethcommon.Address
	StateAccount ledger.IAccount
}

func (s *SystemContractBase) SetContext(ctx *VMContext) {
	s.Ctx = ctx
	s.StateAccount = ctx.StateLedger.GetOrCreateAccount(s.Address)
}

// CrossCallSystemContractContext returns the context for calling another system contract,
// msg.sender of the callee is this contract.
func (s *SystemContractBase) CrossCallSystemContractContext() *VMContext {
	return &VMContext{
		StateLedger:    s.Ctx.StateLedger,
		BlockNumber:    s.Ctx.BlockNumber,
		BlockTimestamp: s.Ctx.BlockTimestamp,
		From:           s.Address,
		CallFromSystem: s.Ctx.CallFromSystem,
	}
}

// EmitEvent packs the event with the contract abi and records it into the state ledger.
func (s *SystemContractBase) EmitEvent(event packer.Event) {
	log, err := event.Pack(*s.EthAbi)
	if err != nil {
		panic(errors.Wrap(err, "emit event"))
	}
	log.Address = s.Address
	s.Ctx.StateLedger.AddLog(log)
}

type SystemContractBuildConfig[T SystemContract] struct {
	Name        string
	Address     string
	AbiStr      string
	Constructor func(systemContractBase SystemContractBase) T

	once    sync.Once
	address ethcommon.Address
	ethAbi  *abi.ABI
}

var _ SystemContractConstruct = (*SystemContractBuildConfig[SystemContract])(nil)

func (m *SystemContractBuildConfig[T]) init() {
	m.once.Do(func() {
		contractAbi, err := abi.JSON(strings.NewReader(m.AbiStr))
		if err != nil {
			panic(errors.Wrapf(err, "parse abi of system contract %s", m.Name))
		}
		m.ethAbi = &contractAbi
		m.address = ethcommon.HexToAddress(m.Address)
	})
}

func (m *SystemContractBuildConfig[T]) Build(ctx *VMContext) T {
	m.init()
	contract := m.Constructor(SystemContractBase{
		Logger:  loggers.Logger(loggers.SystemContract).WithField("contract", m.Name),
		EthAbi:  m.ethAbi,
		Address: m.address,
	})
	contract.SetContext(ctx)
	return contract
}

func (m *SystemContractBuildConfig[T]) ContractName() string {
	return m.Name
}

func (m *SystemContractBuildConfig[T]) ContractAddress() ethcommon.Address {
	m.init()
	return m.address
}

func (m *SystemContractBuildConfig[T]) ContractABI() *abi.ABI {
	m.init()
	return m.ethAbi
}

func (m *SystemContractBuildConfig[T]) BuildContract(ctx *VMContext) SystemContract {
	return m.Build(ctx)
}
