package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-staking/internal/executor"
	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/internal/storagemgr"
	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/repo"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

var txArgs = struct {
	From      string
	Timestamp uint64
}{}

func txFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "from",
			Usage:       "sender address of the transaction",
			Destination: &txArgs.From,
			Required:    true,
		},
		timestampFlag(),
	}
}

func timestampFlag() *cli.Uint64Flag {
	return &cli.Uint64Flag{
		Name:        "timestamp",
		Usage:       "block time in unix seconds, the system clock is used if not set",
		Destination: &txArgs.Timestamp,
		Required:    false,
	}
}

func fileExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func pretty(d any) error {
	res, err := json.MarshalIndent(d, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(res))
	return nil
}

func getRootPath(ctx *cli.Context) (string, error) {
	return repo.LoadRepoRootFromEnv(ctx.String("repo"))
}

func prepareRepo(ctx *cli.Context) (*repo.Repo, error) {
	r, err := loadRepo(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "run `config generate` first")
	}
	if err := loggers.Initialize(ctx.Context, r, true); err != nil {
		return nil, err
	}
	if err := storagemgr.Initialize(r.Config); err != nil {
		return nil, err
	}
	return r, nil
}

// prepareExecutor opens the ledger of the repo, the returned func closes it.
func prepareExecutor(ctx *cli.Context) (*executor.BlockExecutor, func(), error) {
	r, err := prepareRepo(ctx)
	if err != nil {
		return nil, nil, err
	}
	lg, err := ledger.NewLedger(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open ledger")
	}

	var clock executor.Clock = executor.SystemClock{}
	if txArgs.Timestamp != 0 {
		clock = executor.NewManualClock(txArgs.Timestamp)
	}
	exec, err := executor.New(r, lg, clock)
	if err != nil {
		lg.Close()
		return nil, nil, err
	}
	return exec, lg.Close, nil
}

func parseAddress(s string) (ethcommon.Address, error) {
	if !ethcommon.IsHexAddress(s) {
		return ethcommon.Address{}, errors.Errorf("invalid address: %s", s)
	}
	return ethcommon.HexToAddress(s), nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("invalid amount: %s", s)
	}
	return v, nil
}

type decodedEvent struct {
	Contract ethcommon.Address `json:"contract"`
	Name     string            `json:"name"`
	Args     map[string]any    `json:"args"`
}

type receiptView struct {
	TxHash       ethcommon.Hash      `json:"tx_hash"`
	BlockNumber  uint64              `json:"block_number"`
	Timestamp    uint64              `json:"timestamp"`
	Status       types.ReceiptStatus `json:"status"`
	Ret          hexutil.Bytes       `json:"ret,omitempty"`
	Outputs      []any               `json:"outputs,omitempty"`
	RevertReason string              `json:"revert_reason,omitempty"`
	Events       []decodedEvent      `json:"events,omitempty"`
}

// sendTx applies a call of method on the system contract at to and prints the receipt.
func sendTx(ctx *cli.Context, to ethcommon.Address, method string, args ...any) error {
	from, err := parseAddress(txArgs.From)
	if err != nil {
		return err
	}
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	_, err = applyTx(exec, from, to, method, args...)
	return err
}

// applyTx executes one transaction, prints its receipt and returns it.
func applyTx(exec *executor.BlockExecutor, from, to ethcommon.Address, method string, args ...any) (*types.Receipt, error) {
	nvm := exec.NativeVM()
	data, err := nvm.PackInput(to, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	receipt, err := exec.ApplyTransaction(&types.Transaction{
		From: from,
		To:   to,
		Data: data,
	})
	if err != nil {
		return nil, err
	}

	view := &receiptView{
		TxHash:       receipt.TxHash,
		BlockNumber:  receipt.BlockNumber,
		Timestamp:    receipt.Timestamp,
		Status:       receipt.Status,
		Ret:          receipt.Ret,
		RevertReason: receipt.RevertReason,
	}
	if receipt.Status == types.ReceiptSUCCESS && len(receipt.Ret) != 0 {
		view.Outputs, _ = nvm.UnpackOutputArgs(to, method, receipt.Ret)
	}
	for _, log := range receipt.Logs {
		name, eventArgs, err := nvm.DecodeLog(log)
		if err != nil {
			return nil, errors.Wrap(err, "decode log")
		}
		view.Events = append(view.Events, decodedEvent{
			Contract: log.Address,
			Name:     name,
			Args:     eventArgs,
		})
	}
	return receipt, pretty(view)
}

// call runs a read only call and returns the decoded outputs.
func call(exec *executor.BlockExecutor, from, to ethcommon.Address, method string, args ...any) ([]any, error) {
	nvm := exec.NativeVM()
	data, err := nvm.PackInput(to, method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	ret, err := exec.Call(from, to, data)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	return nvm.UnpackOutputArgs(to, method, ret)
}
