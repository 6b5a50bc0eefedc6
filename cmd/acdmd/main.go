package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"acdm_platform/internal/logger"
	"acdm_platform/ledger"
	"acdm_platform/platform"
	"acdm_platform/storage"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "acdmd",
		Short: "Operator surface for the ACDM trading platform",
		Long: "Thin pass-through commands over the staking, governance and " +
			"round engines. State lives in a local sqlite file so sequential " +
			"invocations share one platform.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("as", envOr("ACDM_CALLER", ""), "account performing the call")
	root.PersistentFlags().String("db", envOr("ACDM_DB", "acdm.db"), "sqlite state file")

	root.AddCommand(
		cmdDeposit(), cmdApprove(), cmdBalance(),
		cmdStake(), cmdUnstake(), cmdClaim(),
		cmdRegister(), cmdStartSaleRound(), cmdStartTradeRound(), cmdBuy(),
		cmdAddOrder(), cmdRemoveOrder(), cmdFillOrder(),
		cmdPropose(), cmdVote(), cmdFinish(),
		cmdSendToOwner(), cmdSwapAndBurn(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// openPlatform wires a platform over the sqlite store named by --db.
func openPlatform(cmd *cobra.Command) (*platform.Platform, error) {
	path, _ := cmd.Flags().GetString("db")
	store, err := storage.NewSqliteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	log := logger.New(logger.Configuration{
		LogFile: os.Getenv("ACDM_LOG_FILE"),
		Level:   envOr("ACDM_LOG_LEVEL", "info"),
		Console: os.Getenv("ACDM_LOG_CONSOLE") == "1",
	})
	cfg := platform.DefaultConfig()
	if v := os.Getenv("ACDM_QUORUM"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MinimumQuorum = ledger.Amount(n)
		}
	}
	return platform.New(platform.Options{
		Store:    store,
		Clock:    platform.SystemClock{},
		Logger:   log,
		Recorder: store,
		Config:   &cfg,
		Owner:    ledger.Address(envOr("ACDM_OWNER", "user:owner")),
		Chair:    ledger.Address(envOr("ACDM_CHAIR", "user:owner")),
	}), nil
}

func caller(cmd *cobra.Command) (ledger.Address, error) {
	v, _ := cmd.Flags().GetString("as")
	if v == "" {
		return "", fmt.Errorf("--as (or ACDM_CALLER) is required")
	}
	addr := ledger.Address(v)
	// Engine and system accounts are custody identities, not callers.
	if d := addr.Domain(); d != ledger.AddressDomainUser {
		return "", fmt.Errorf("%s is a reserved %s account", addr, d)
	}
	return addr, nil
}

func parseAmount(raw string) (ledger.Amount, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q: %w", raw, err)
	}
	return ledger.Amount(n), nil
}

func parseID(raw string) (uint64, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q: %w", raw, err)
	}
	return n, nil
}
