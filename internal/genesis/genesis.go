package genesis

import (
	"encoding/json"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/axiomesh/axiom-staking/internal/executor/system"
	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/repo"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

const Height = 1

var (
	genesisConfigKey = []byte("genesis_cfg")
)

// Initialize writes the genesis block at timestamp: the state of every system contract
// and the genesis config it was built from.
func Initialize(genesis *repo.GenesisConfig, nvm *system.NativeVM, lg *ledger.Ledger, timestamp uint64) (*types.ChainMeta, error) {
	lg.StateLedger.PrepareBlock(Height, timestamp)

	// the stored config carries the effective timestamp
	applied := *genesis
	applied.Timestamp = timestamp
	if err := initializeGenesisConfig(&applied, lg.StateLedger); err != nil {
		return nil, err
	}

	if err := nvm.InitGenesisData(genesis, lg.StateLedger, timestamp); err != nil {
		return nil, err
	}
	lg.StateLedger.Finalise()

	meta := &types.ChainMeta{Height: Height, Timestamp: timestamp}
	if err := lg.PersistExecutionResult(meta, nil); err != nil {
		return nil, errors.Wrap(err, "persist genesis block")
	}
	return meta, nil
}

func IsInitialized(lg *ledger.Ledger) bool {
	exists, _ := lg.StateLedger.GetState(ethcommon.HexToAddress(common.ZeroAddress), genesisConfigKey)
	return exists
}

func initializeGenesisConfig(genesis *repo.GenesisConfig, lg ledger.StateLedger) error {
	account := lg.GetOrCreateAccount(ethcommon.HexToAddress(common.ZeroAddress))

	genesisCfg, err := json.Marshal(genesis)
	if err != nil {
		return err
	}
	account.SetState(genesisConfigKey, genesisCfg)
	return nil
}

// GetGenesisConfig retrieves the genesis configuration the ledger was initialized with,
// nil if the ledger is empty.
func GetGenesisConfig(lg *ledger.Ledger) (*repo.GenesisConfig, error) {
	account := lg.StateLedger.GetAccount(ethcommon.HexToAddress(common.ZeroAddress))
	if account == nil {
		return nil, nil
	}

	exists, data := account.GetState(genesisConfigKey)
	if !exists {
		return nil, nil
	}

	genesis := &repo.GenesisConfig{}
	if err := json.Unmarshal(data, genesis); err != nil {
		return nil, errors.Wrap(err, "unmarshal genesis config")
	}
	return genesis, nil
}
