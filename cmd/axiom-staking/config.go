package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-staking/pkg/repo"
)

var generateArgs = struct {
	KvType      string
	Owner       string
	StakeTime   uint64
	ClaimTime   uint64
	RewardsTime uint64
	Timestamp   uint64
}{}

var configCMD = &cli.Command{
	Name:  "config",
	Usage: "The config manage commands",
	Subcommands: []*cli.Command{
		{
			Name:   "generate",
			Usage:  "Generate config.toml and genesis.toml, flags override the defaults",
			Action: generate,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "kv-type",
					Usage:       "leveldb, pebble or memory",
					Value:       repo.KVStorageTypeLeveldb,
					Destination: &generateArgs.KvType,
				},
				&cli.StringFlag{
					Name:        "owner",
					Usage:       "owner of the staking contract and admin of both tokens",
					Value:       repo.DefaultAdmin,
					Destination: &generateArgs.Owner,
				},
				&cli.Uint64Flag{
					Name:        "stake-time",
					Value:       repo.DefaultStakeTime,
					Destination: &generateArgs.StakeTime,
				},
				&cli.Uint64Flag{
					Name:        "claim-time",
					Value:       repo.DefaultClaimTime,
					Destination: &generateArgs.ClaimTime,
				},
				&cli.Uint64Flag{
					Name:        "rewards-time",
					Value:       repo.DefaultRewardsTime,
					Destination: &generateArgs.RewardsTime,
				},
				&cli.Uint64Flag{
					Name:        "genesis-timestamp",
					Usage:       "genesis block time in unix seconds, 0 means the time the ledger is first opened",
					Destination: &generateArgs.Timestamp,
				},
			},
		},
		{
			Name:   "show",
			Usage:  "Show the complete config processed by the environment variable",
			Action: showFile(func(r *repo.Repo) any { return r.Config }),
		},
		{
			Name:   "show-genesis",
			Usage:  "Show the complete genesis config processed by the environment variable",
			Action: showFile(func(r *repo.Repo) any { return r.GenesisConfig }),
		},
		{
			Name:   "check",
			Usage:  "Check if the config files are valid",
			Action: check,
		},
	},
}

func generate(ctx *cli.Context) error {
	p, err := getRootPath(ctx)
	if err != nil {
		return err
	}
	if fileExist(filepath.Join(p, repo.CfgFileName)) {
		fmt.Println("axiom-staking repo already exists")
		return nil
	}
	if err := os.MkdirAll(p, 0755); err != nil {
		return err
	}

	r := repo.Default(p)
	r.Config.Storage.KvType = generateArgs.KvType
	genesis := r.GenesisConfig
	genesis.Timestamp = generateArgs.Timestamp
	genesis.StakeToken.Admin = generateArgs.Owner
	genesis.RewardsToken.Admin = generateArgs.Owner
	genesis.Staking.Owner = generateArgs.Owner
	genesis.Staking.StakeTime = generateArgs.StakeTime
	genesis.Staking.ClaimTime = generateArgs.ClaimTime
	genesis.Staking.RewardsTime = generateArgs.RewardsTime
	if err := genesis.Validate(); err != nil {
		return err
	}

	if err := r.Flush(); err != nil {
		return err
	}
	fmt.Printf("config successfully generated in %s\n", p)
	return nil
}

func loadRepo(ctx *cli.Context) (*repo.Repo, error) {
	p, err := getRootPath(ctx)
	if err != nil {
		return nil, err
	}
	if !fileExist(filepath.Join(p, repo.CfgFileName)) {
		return nil, errors.Errorf("axiom-staking repo not exist in %s", p)
	}
	return repo.Load(p)
}

func showFile(pick func(r *repo.Repo) any) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		r, err := loadRepo(ctx)
		if err != nil {
			return err
		}
		str, err := repo.MarshalConfig(pick(r))
		if err != nil {
			return err
		}
		fmt.Println(str)
		return nil
	}
}

func check(ctx *cli.Context) error {
	r, err := loadRepo(ctx)
	if err != nil {
		return errors.Wrap(err, "config file format error, please check")
	}
	r.PrintRepoInfo(func(c string) {
		fmt.Println(c)
	})
	return nil
}
