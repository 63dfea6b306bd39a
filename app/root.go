// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gomarket",
	Short: "GoMarket is the backend of the GoMarket shop",
	Long: `GoMarket is the e-commerce backend serving the shop API:
accounts with OTP verification, catalog, carts, orders, payments,
coupons, wishlists and notifications.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
