package cmd

import (
	"encoding/json"
	"os"

	"loanbook/core"

	"github.com/asaskevich/govalidator"
	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "manage listed assets",
}

var assetAddCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "register a new asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		operator, _ := cmd.Flags().GetString("operator")
		if !cfg.IsAdmin(operator) {
			cmd.PrintErrln(core.ErrUnauthorized)
			os.Exit(1)
		}

		params := assetParamsFromFlags(cmd, args[0])
		if !govalidator.IsUUID(params.UnderlyingRef) || !govalidator.IsUUID(params.PriceFeedRef) {
			cmd.PrintErrln("underlying and feed must be uuids")
			os.Exit(1)
		}

		database := provideDatabase()
		defer database.Close()

		eng := provideEngine(database)
		if err := eng.Load(ctx); err != nil {
			cmd.PrintErrln("load ledger error:", err)
			os.Exit(1)
		}

		asset, err := eng.RegisterAsset(ctx, params)
		if err != nil {
			cmd.PrintErrln("register asset error:", err)
			os.Exit(1)
		}

		printJSON(cmd, asset)
	},
}

var assetUpdateCmd = &cobra.Command{
	Use:   "update <symbol>",
	Short: "update risk parameters of a listed asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		operator, _ := cmd.Flags().GetString("operator")
		if !cfg.IsAdmin(operator) {
			cmd.PrintErrln(core.ErrUnauthorized)
			os.Exit(1)
		}

		database := provideDatabase()
		defer database.Close()

		eng := provideEngine(database)
		if err := eng.Load(ctx); err != nil {
			cmd.PrintErrln("load ledger error:", err)
			os.Exit(1)
		}

		asset, err := eng.UpdateAsset(ctx, assetParamsFromFlags(cmd, args[0]))
		if err != nil {
			cmd.PrintErrln("update asset error:", err)
			os.Exit(1)
		}

		printJSON(cmd, asset)
	},
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "list all assets",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		eng := provideEngine(database)
		if err := eng.Load(ctx); err != nil {
			cmd.PrintErrln("load ledger error:", err)
			os.Exit(1)
		}

		for _, symbol := range eng.ListAssetIDs(ctx) {
			asset, err := eng.GetAsset(ctx, symbol)
			if err != nil {
				continue
			}
			printJSON(cmd, asset)
		}
	},
}

func assetParamsFromFlags(cmd *cobra.Command, symbol string) core.AssetParams {
	underlying, _ := cmd.Flags().GetString("underlying")
	feed, _ := cmd.Flags().GetString("feed")
	collateralFactor, _ := cmd.Flags().GetInt64("collateral-factor")
	borrowFactor, _ := cmd.Flags().GetInt64("borrow-factor")
	liquidationThreshold, _ := cmd.Flags().GetInt64("liquidation-threshold")
	supplyRate, _ := cmd.Flags().GetInt64("supply-rate")
	borrowRate, _ := cmd.Flags().GetInt64("borrow-rate")
	active, _ := cmd.Flags().GetBool("active")

	return core.AssetParams{
		Symbol:                  symbol,
		UnderlyingRef:           underlying,
		PriceFeedRef:            feed,
		CollateralFactorBps:     collateralFactor,
		BorrowFactorBps:         borrowFactor,
		LiquidationThresholdBps: liquidationThreshold,
		SupplyRateBpsPerYear:    supplyRate,
		BorrowRateBpsPerYear:    borrowRate,
		IsActive:                active,
	}
}

func printJSON(cmd *cobra.Command, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	cmd.Println(string(data))
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(assetAddCmd, assetUpdateCmd, assetListCmd)

	for _, cmd := range []*cobra.Command{assetAddCmd, assetUpdateCmd} {
		cmd.Flags().String("operator", "", "operator id checked against the admin list")
		cmd.Flags().String("underlying", "", "underlying token reference (uuid)")
		cmd.Flags().String("feed", "", "price feed reference (uuid)")
		cmd.Flags().Int64("collateral-factor", 0, "collateral factor in bps")
		cmd.Flags().Int64("borrow-factor", 0, "borrow factor in bps")
		cmd.Flags().Int64("liquidation-threshold", 0, "liquidation threshold in bps")
		cmd.Flags().Int64("supply-rate", 0, "supply rate in bps per year")
		cmd.Flags().Int64("borrow-rate", 0, "borrow rate in bps per year")
		cmd.Flags().Bool("active", true, "asset open for supply/borrow/withdraw")
	}
}
