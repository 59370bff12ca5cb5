package main

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var ledgerGetReceiptArgs = struct {
	Hash string
}{}

var ledgerCMD = &cli.Command{
	Name:  "ledger",
	Usage: "The ledger manage commands",
	Subcommands: []*cli.Command{
		{
			Name:   "status",
			Usage:  "Show the latest block of the ledger",
			Action: ledgerStatus,
		},
		{
			Name:   "genesis",
			Usage:  "Show the genesis config the ledger was initialized with",
			Action: ledgerGenesis,
		},
		{
			Name:   "receipt",
			Usage:  "Get the receipt of a transaction",
			Action: ledgerGetReceipt,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "hash",
					Usage:       "transaction hash",
					Required:    true,
					Destination: &ledgerGetReceiptArgs.Hash,
				},
			},
		},
	},
}

func ledgerStatus(ctx *cli.Context) error {
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()
	return pretty(exec.CurrentChainMeta())
}

func ledgerGenesis(ctx *cli.Context) error {
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	genesisConfig, err := exec.GenesisConfig()
	if err != nil {
		return err
	}
	return pretty(genesisConfig)
}

func ledgerGetReceipt(ctx *cli.Context) error {
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	receipt, err := exec.GetReceipt(ethcommon.HexToHash(ledgerGetReceiptArgs.Hash))
	if err != nil {
		return errors.Wrapf(err, "get receipt %s", ledgerGetReceiptArgs.Hash)
	}
	return pretty(receipt)
}
