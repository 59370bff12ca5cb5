package common

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/repo"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

// TestNVM runs system contracts directly against an in-memory ledger, one block per tx.
type TestNVM struct {
	t           testing.TB
	Rep         *repo.Repo
	Ledger      *ledger.Ledger
	StateLedger ledger.StateLedger

	BlockNumber    uint64
	BlockTimestamp uint64

	// logs emitted by the last successful RunSingleTX
	Logs []*types.EvmLog
}

func NewTestNVM(t testing.TB) *TestNVM {
	rep := repo.MockRepo(t)
	lg, err := ledger.NewMemory(rep)
	assert.Nil(t, err)
	return &TestNVM{
		t:              t,
		Rep:            rep,
		Ledger:         lg,
		StateLedger:    lg.StateLedger,
		BlockTimestamp: rep.GenesisConfig.Timestamp,
	}
}

func NewTestVMContext(stateLedger ledger.StateLedger, from ethcommon.Address) *VMContext {
	return NewVMContext(stateLedger, 1, 0, from)
}

func (nvm *TestNVM) GenesisInit(contracts ...SystemContract) {
	for _, contract := range contracts {
		contract.SetContext(&VMContext{
			StateLedger:    nvm.StateLedger,
			BlockTimestamp: nvm.Rep.GenesisConfig.Timestamp,
			CallFromSystem: true,
		})
		err := contract.GenesisInit(nvm.Rep.GenesisConfig)
		assert.Nil(nvm.t, err)
	}
	nvm.StateLedger.Finalise()
}

// Sleep moves the block time forward.
func (nvm *TestNVM) Sleep(seconds uint64) {
	nvm.BlockTimestamp += seconds
}

type TestNVMRunOption func(ctx *VMContext)

func TestNVMRunOptionCallFromSystem() TestNVMRunOption {
	return func(ctx *VMContext) {
		ctx.CallFromSystem = true
	}
}

// RunSingleTX runs executor as one transaction of from, all changes are reverted if it returns an error.
func (nvm *TestNVM) RunSingleTX(contract SystemContract, from ethcommon.Address, executor func() error, opts ...TestNVMRunOption) error {
	nvm.BlockNumber++
	snapshot := nvm.StateLedger.Snapshot()
	ctx := NewVMContext(nvm.StateLedger, nvm.BlockNumber, nvm.BlockTimestamp, from)
	for _, opt := range opts {
		opt(ctx)
	}
	contract.SetContext(ctx)
	if err := executor(); err != nil {
		nvm.StateLedger.RevertToSnapshot(snapshot)
		return err
	}
	nvm.Logs = append([]*types.EvmLog{}, nvm.StateLedger.GetLogs()...)
	nvm.StateLedger.Finalise()
	return nil
}

// Call runs executor as a read only call, all changes are dropped.
func (nvm *TestNVM) Call(contract SystemContract, from ethcommon.Address, executor func()) {
	snapshot := nvm.StateLedger.Snapshot()
	contract.SetContext(NewVMContext(nvm.StateLedger, nvm.BlockNumber, nvm.BlockTimestamp, from))
	executor()
	nvm.StateLedger.RevertToSnapshot(snapshot)
}
