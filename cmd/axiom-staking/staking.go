package main

import (
	"fmt"
	"math/big"

	"github.com/cheynewallace/tabby"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-staking/internal/executor"
	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/executor/system/staking"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

var stakingArgs = struct {
	Amount   string
	Account  string
	Time     uint64
	Mantissa int64
	Exponent int64
}{}

var stakingAddr = ethcommon.HexToAddress(common.StakingContractAddr)

func durationFlag() *cli.Uint64Flag {
	return &cli.Uint64Flag{
		Name:        "time",
		Usage:       "duration in seconds",
		Required:    true,
		Destination: &stakingArgs.Time,
	}
}

var stakingCMD = &cli.Command{
	Name:  "staking",
	Usage: "The staking contract commands",
	Subcommands: []*cli.Command{
		{
			Name:   "info",
			Usage:  "Show the staking config and rewards supply",
			Action: stakingInfo,
			Flags:  []cli.Flag{timestampFlag()},
		},
		{
			Name:    "pending",
			Aliases: []string{"account"},
			Usage:   "Show the stake and pending rewards of an account",
			Action:  stakingAccount,
			Flags: []cli.Flag{
				timestampFlag(),
				&cli.StringFlag{
					Name:        "account",
					Required:    true,
					Destination: &stakingArgs.Account,
				},
			},
		},
		{
			Name:   "stake",
			Usage:  "Stake tokens, the staking contract must be approved before",
			Action: stakingStake,
			Flags:  append(txFlags(), amountFlag(&stakingArgs.Amount)),
		},
		{
			Name:   "unstake",
			Usage:  "Withdraw the whole stake",
			Action: stakingSend("unstake"),
			Flags:  txFlags(),
		},
		{
			Name:   "claim",
			Usage:  "Claim the accrued rewards",
			Action: stakingSend("claim"),
			Flags:  txFlags(),
		},
		{
			Name:   "add-rewards",
			Usage:  "Fund the rewards supply, only the owner",
			Action: stakingAddRewards,
			Flags:  append(txFlags(), amountFlag(&stakingArgs.Amount)),
		},
		{
			Name:   "reclaim-rewards",
			Usage:  "Withdraw the whole rewards supply, only the owner",
			Action: stakingSend("reclaimRewards"),
			Flags:  txFlags(),
		},
		{
			Name:   "set-stake-time",
			Usage:  "Set the cooldown after staking, only the owner",
			Action: stakingSetTime("setStakeTime"),
			Flags:  append(txFlags(), durationFlag()),
		},
		{
			Name:   "set-claim-time",
			Usage:  "Set the cooldown after claiming, only the owner",
			Action: stakingSetTime("setClaimTime"),
			Flags:  append(txFlags(), durationFlag()),
		},
		{
			Name:   "set-rewards-time",
			Usage:  "Set the length of a rewards interval, only the owner",
			Action: stakingSetTime("setRewardsTime"),
			Flags:  append(txFlags(), durationFlag()),
		},
		{
			Name:   "set-rewards-percent",
			Usage:  "Set the percent paid per interval as mantissa*10^exponent, only the owner",
			Action: stakingSetRewardsPercent,
			Flags: append(txFlags(),
				&cli.Int64Flag{
					Name:        "mantissa",
					Required:    true,
					Destination: &stakingArgs.Mantissa,
				},
				&cli.Int64Flag{
					Name:        "exponent",
					Destination: &stakingArgs.Exponent,
				},
			),
		},
	},
}

func stakingSend(method string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return sendTx(ctx, stakingAddr, method)
	}
}

func stakingSetTime(method string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return sendTx(ctx, stakingAddr, method, stakingArgs.Time)
	}
}

func stakingStake(ctx *cli.Context) error {
	amount, err := parseAmount(stakingArgs.Amount)
	if err != nil {
		return err
	}
	return sendTx(ctx, stakingAddr, "stake", amount)
}

// stakingAddRewards approves the staking contract on the rewards token and then funds it,
// each in its own transaction.
func stakingAddRewards(ctx *cli.Context) error {
	amount, err := parseAmount(stakingArgs.Amount)
	if err != nil {
		return err
	}
	from, err := parseAddress(txArgs.From)
	if err != nil {
		return err
	}
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	outputs, err := call(exec, from, stakingAddr, "rewardsToken")
	if err != nil {
		return err
	}
	receipt, err := applyTx(exec, from, outputs[0].(ethcommon.Address), "approve", stakingAddr, amount)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptSUCCESS {
		return errors.Errorf("approve rewards token failed: %s", receipt.RevertReason)
	}
	_, err = applyTx(exec, from, stakingAddr, "addRewards", amount)
	return err
}

func stakingSetRewardsPercent(ctx *cli.Context) error {
	if stakingArgs.Exponent < -128 || stakingArgs.Exponent > 127 {
		return errors.Errorf("exponent %d out of int8 range", stakingArgs.Exponent)
	}
	percent := staking.Percent{Mantissa: stakingArgs.Mantissa, Exponent: int8(stakingArgs.Exponent)}
	if err := percent.Validate(); err != nil {
		return err
	}
	return sendTx(ctx, stakingAddr, "setRewardsPercent", percent.Mantissa, percent.Exponent)
}

func stakingInfo(ctx *cli.Context) error {
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	t := tabby.New()
	t.AddHeader("NAME", "VALUE")
	for _, method := range []string{"owner", "stakeToken", "rewardsToken", "stakeTime", "claimTime", "rewardsTime", "rewardsSupply"} {
		outputs, err := call(exec, ethcommon.Address{}, stakingAddr, method)
		if err != nil {
			return err
		}
		t.AddLine(method, outputs[0])
	}
	outputs, err := call(exec, ethcommon.Address{}, stakingAddr, "rewardsPercent")
	if err != nil {
		return err
	}
	percent := staking.Percent{Mantissa: outputs[0].(int64), Exponent: outputs[1].(int8)}
	t.AddLine("rewardsPercent", percent)
	t.AddLine("ratePerInterval", percent.Rat().RatString())
	t.Print()
	return nil
}

func stakingAccount(ctx *cli.Context) error {
	account, err := parseAddress(stakingArgs.Account)
	if err != nil {
		return err
	}
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	return printAccount(exec, account)
}

func printAccount(exec *executor.BlockExecutor, account ethcommon.Address) error {
	stake, err := call(exec, account, stakingAddr, "stakeOf", account)
	if err != nil {
		return err
	}
	pending, err := call(exec, account, stakingAddr, "pendingRewards", account)
	if err != nil {
		return err
	}

	t := tabby.New()
	t.AddHeader("ACCOUNT", "STAKED", "LAST STAKE", "LAST CLAIM", "PENDING", "INTERVALS")
	t.AddLine(account, stake[0].(*big.Int), stake[1], stake[2], pending[0].(*big.Int), pending[1])
	t.Print()
	fmt.Printf("queried at block %d\n", exec.CurrentChainMeta().Height)
	return nil
}
