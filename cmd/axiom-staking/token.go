package main

import (
	"fmt"

	"github.com/cheynewallace/tabby"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
)

var tokenArgs = struct {
	Token   string
	Account string
	Spender string
	To      string
	Amount  string
}{}

var tokenAddresses = map[string]string{
	"stake":   common.StakeTokenContractAddr,
	"rewards": common.RewardsTokenContractAddr,
}

func tokenFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "token",
		Usage:       "which token, stake or rewards",
		Value:       "stake",
		Destination: &tokenArgs.Token,
	}
}

func amountFlag(destination *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "amount",
		Usage:       "amount in the smallest unit",
		Required:    true,
		Destination: destination,
	}
}

var tokenCMD = &cli.Command{
	Name:  "token",
	Usage: "The stake and rewards token commands",
	Subcommands: []*cli.Command{
		{
			Name:   "info",
			Usage:  "Show the meta of both tokens",
			Action: tokenInfo,
		},
		{
			Name:   "balance",
			Usage:  "Show the balance of an account",
			Action: tokenBalance,
			Flags: []cli.Flag{
				tokenFlag(),
				&cli.StringFlag{
					Name:        "account",
					Required:    true,
					Destination: &tokenArgs.Account,
				},
			},
		},
		{
			Name:   "allowance",
			Usage:  "Show how much spender may still move from the account",
			Action: tokenAllowance,
			Flags: []cli.Flag{
				tokenFlag(),
				&cli.StringFlag{
					Name:        "account",
					Usage:       "owner of the tokens",
					Required:    true,
					Destination: &tokenArgs.Account,
				},
				&cli.StringFlag{
					Name:        "spender",
					Value:       common.StakingContractAddr,
					Destination: &tokenArgs.Spender,
				},
			},
		},
		{
			Name:   "approve",
			Usage:  "Allow spender to move tokens of the sender",
			Action: tokenApprove,
			Flags: append(txFlags(),
				tokenFlag(),
				amountFlag(&tokenArgs.Amount),
				&cli.StringFlag{
					Name:        "spender",
					Usage:       "the staking contract if not set",
					Value:       common.StakingContractAddr,
					Destination: &tokenArgs.Spender,
				},
			),
		},
		{
			Name:   "transfer",
			Usage:  "Transfer tokens of the sender",
			Action: tokenTransfer,
			Flags: append(txFlags(),
				tokenFlag(),
				amountFlag(&tokenArgs.Amount),
				&cli.StringFlag{
					Name:        "to",
					Required:    true,
					Destination: &tokenArgs.To,
				},
			),
		},
		{
			Name:   "mint",
			Usage:  "Mint tokens, only the token admin",
			Action: tokenMint,
			Flags: append(txFlags(),
				tokenFlag(),
				amountFlag(&tokenArgs.Amount),
				&cli.StringFlag{
					Name:        "to",
					Required:    true,
					Destination: &tokenArgs.To,
				},
			),
		},
		{
			Name:   "burn",
			Usage:  "Burn tokens of the admin",
			Action: tokenBurn,
			Flags: append(txFlags(),
				tokenFlag(),
				amountFlag(&tokenArgs.Amount),
			),
		},
	},
}

func selectedToken() (ethcommon.Address, error) {
	addr, ok := tokenAddresses[tokenArgs.Token]
	if !ok {
		return ethcommon.Address{}, errors.Errorf("unknown token %s, expect one of %v", tokenArgs.Token, lo.Keys(tokenAddresses))
	}
	return ethcommon.HexToAddress(addr), nil
}

func tokenInfo(ctx *cli.Context) error {
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	t := tabby.New()
	t.AddHeader("TOKEN", "ADDRESS", "NAME", "SYMBOL", "DECIMALS", "TOTAL SUPPLY", "ADMIN")
	for _, kind := range []string{"stake", "rewards"} {
		addr := ethcommon.HexToAddress(tokenAddresses[kind])
		values := []any{kind, addr}
		for _, method := range []string{"name", "symbol", "decimals", "totalSupply", "admin"} {
			outputs, err := call(exec, ethcommon.Address{}, addr, method)
			if err != nil {
				return err
			}
			values = append(values, outputs[0])
		}
		t.AddLine(values...)
	}
	t.Print()
	return nil
}

func tokenBalance(ctx *cli.Context) error {
	tokenAddr, err := selectedToken()
	if err != nil {
		return err
	}
	account, err := parseAddress(tokenArgs.Account)
	if err != nil {
		return err
	}
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	outputs, err := call(exec, account, tokenAddr, "balanceOf", account)
	if err != nil {
		return err
	}
	fmt.Println(outputs[0])
	return nil
}

func tokenAllowance(ctx *cli.Context) error {
	tokenAddr, err := selectedToken()
	if err != nil {
		return err
	}
	owner, err := parseAddress(tokenArgs.Account)
	if err != nil {
		return err
	}
	spender, err := parseAddress(tokenArgs.Spender)
	if err != nil {
		return err
	}
	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	outputs, err := call(exec, owner, tokenAddr, "allowance", owner, spender)
	if err != nil {
		return err
	}
	fmt.Println(outputs[0])
	return nil
}

func tokenApprove(ctx *cli.Context) error {
	tokenAddr, err := selectedToken()
	if err != nil {
		return err
	}
	spender, err := parseAddress(tokenArgs.Spender)
	if err != nil {
		return err
	}
	amount, err := parseAmount(tokenArgs.Amount)
	if err != nil {
		return err
	}
	return sendTx(ctx, tokenAddr, "approve", spender, amount)
}

func tokenTransfer(ctx *cli.Context) error {
	return sendTokenTo(ctx, "transfer")
}

func tokenMint(ctx *cli.Context) error {
	return sendTokenTo(ctx, "mint")
}

func sendTokenTo(ctx *cli.Context, method string) error {
	tokenAddr, err := selectedToken()
	if err != nil {
		return err
	}
	to, err := parseAddress(tokenArgs.To)
	if err != nil {
		return err
	}
	amount, err := parseAmount(tokenArgs.Amount)
	if err != nil {
		return err
	}
	return sendTx(ctx, tokenAddr, method, to, amount)
}

func tokenBurn(ctx *cli.Context) error {
	tokenAddr, err := selectedToken()
	if err != nil {
		return err
	}
	amount, err := parseAmount(tokenArgs.Amount)
	if err != nil {
		return err
	}
	return sendTx(ctx, tokenAddr, "burn", amount)
}
