package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-oil-price/pkg/display"
	"github.com/shouni/go-oil-price/pkg/oilprice"
)

// rawCmd は、昨日・本日・明日の価格をソースの値のまま表示します。
// レコードはXMLドキュメント内の出現順のまま出力します。
var rawCmd = &cobra.Command{
	Use:   "raw",
	Short: "昨日・本日・明日の価格を生の値のまま一覧表示します",
	Long:  `油価フィードの価格文字列を数値変換せず、昨日・本日・明日の列形式でそのまま表示します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
		defer cancel()

		report, err := runPricePipeline(ctx, GetGlobalFetcher(), Flags.PriceURL)
		if err != nil {
			return err
		}
		if report == nil {
			return nil
		}

		report.Fuels = oilprice.FilterByType(report.Fuels, Flags.FuelFilter)

		display.PrintRaw(os.Stdout, report)
		return nil
	},
}
