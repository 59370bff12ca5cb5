package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-staking/pkg/repo"
)

const envFileVar = "AXIOM_STAKING_ENV_FILE"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Println(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = repo.AppName
	app.Usage = "A local staking ledger: stake one token and accrue rewards in another"
	app.Compiled = time.Now()
	app.Version = repo.BuildVersion
	app.Before = func(*cli.Context) error {
		return loadEnvFile()
	}

	cli.VersionPrinter = func(*cli.Context) {
		printVersion()
	}

	// global flags
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "repo",
			Usage: "Work path, $AXIOM_STAKING_PATH or ~/.axiom-staking if not set",
		},
	}

	app.Commands = []*cli.Command{
		configCMD,
		ledgerCMD,
		tokenCMD,
		stakingCMD,
		metricsCMD,
	}
	return app
}

// loadEnvFile exports the variables of $AXIOM_STAKING_ENV_FILE, or ./.env, without overriding the environment.
func loadEnvFile() error {
	envFile := os.Getenv(envFileVar)
	if envFile == "" {
		envFile = ".env"
	}
	if !fileExist(envFile) {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load env file %s failed: %w", envFile, err)
	}
	return nil
}

func printVersion() {
	fmt.Printf("%s version: %s-%s-%s\n", repo.AppName, repo.BuildVersion, repo.BuildBranch, repo.BuildCommit)
	fmt.Printf("App build date: %s\n", repo.BuildDate)
	fmt.Printf("System version: %s\n", repo.Platform)
	fmt.Printf("Golang version: %s\n", repo.GoVersion)
}
