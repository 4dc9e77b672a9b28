package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-oil-price/pkg/display"
	"github.com/shouni/go-oil-price/pkg/fetch"
	"github.com/shouni/go-oil-price/pkg/oilprice"
)

// runPricePipeline は、油価XMLの取得と解析を実行するメインロジックです。
//
// 2xx以外のレスポンスやネットワーク障害は「データなし」として扱います。
// 診断メッセージを出力した上で nil レポートを返し、処理は中断しません。
// 解析エラーはそのまま呼び出し元に返します。
func runPricePipeline(ctx context.Context, fetcher fetch.Fetcher, url string) (*oilprice.Report, error) {
	data, err := fetcher.FetchBytes(ctx, url)
	if err != nil {
		if statusErr, ok := fetch.AsStatusError(err); ok {
			log.Printf("レスポンスコード %d が返されました (URL: %s)", statusErr.StatusCode, url)
		} else {
			log.Printf("油価データの取得に失敗しました (URL: %s): %v", url, err)
		}
		return nil, nil
	}

	report, err := oilprice.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("油価データの解析エラー (URL: %s): %w", url, err)
	}

	return report, nil
}

// runPricesCmd は、ルートコマンドの本体です。取得・解析したレコードを
// フィルタし、油種名の辞書順にソートして前日比付きのテーブルを表示します。
func runPricesCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), overallTimeout())
	defer cancel()

	report, err := runPricePipeline(ctx, GetGlobalFetcher(), Flags.PriceURL)
	if err != nil {
		return err
	}
	if report == nil {
		// フェッチ失敗。診断済みのため、テーブルは表示せず正常終了する。
		return nil
	}

	report.Fuels = oilprice.SortByType(oilprice.FilterByType(report.Fuels, Flags.FuelFilter))

	if err := display.PrintDelta(os.Stdout, report); err != nil {
		return fmt.Errorf("価格テーブルの出力エラー: %w", err)
	}
	return nil
}
