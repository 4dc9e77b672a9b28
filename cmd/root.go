package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-oil-price/pkg/fetch"
	"github.com/shouni/go-oil-price/pkg/oilprice"
)

// --- グローバル定数 ---

const (
	appName           = "oil-price"
	defaultTimeoutSec = 10 // 秒
	defaultMaxRetries = 0  // ポイントインタイムの照会ツールのためデフォルトは再試行なし

	// 全体処理のタイムアウト定数 (priceCmd, rawCmd で利用)
	DefaultOverallTimeout = 20 * time.Second
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持します。
type AppFlags struct {
	TimeoutSec int    // --timeout タイムアウト
	MaxRetries int    // --max-retries リトライ回数
	PriceURL   string // --url 油価フィードのURL
	FuelFilter string // --filter 油種名の部分一致フィルタ
}

var Flags AppFlags // アプリケーション固有フラグにアクセスするためのグローバル変数

var globalFetcher fetch.Fetcher // 共有フェッチャー (PersistentPreRunE で初期化)

// ルートコマンド。引数なしで実行すると油価を取得し、前日比付きの
// テーブルを油種名の辞書順で表示します。
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "バンチャークの油価フィードを取得し、価格テーブルを表示します",
	Long: `バンチャーク社のWebサービスから油価XMLを取得・解析し、油種ごとの
価格を整形して表示します。引数なしで実行すると本日価格と前日比の
テーブルを、raw サブコマンドで昨日・本日・明日の生の値を表示します。`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initAppPreRunE,
	RunE:              runPricesCmd,
}

// --- 初期化とロジック ---

// initAppPreRunE は、フラグの値から共有フェッチャーを初期化します。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	timeout := time.Duration(Flags.TimeoutSec) * time.Second

	globalFetcher = fetch.New(
		timeout,
		fetch.WithMaxRetries(uint64(Flags.MaxRetries)),
	)

	return nil
}

// GetGlobalFetcher は、初期化されたフェッチャーを返します (DIの代わり)。
func GetGlobalFetcher() fetch.Fetcher {
	return globalFetcher
}

// overallTimeout は、フェッチとパース全体をカバーするタイムアウトを
// 返します。HTTPクライアントタイムアウトの2倍を全体の上限とします。
func overallTimeout() time.Duration {
	if Flags.TimeoutSec == 0 {
		return DefaultOverallTimeout
	}
	return time.Duration(Flags.TimeoutSec*2) * time.Second
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("アプリケーションエラー: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		defaultTimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）",
	)
	rootCmd.PersistentFlags().IntVar(
		&Flags.MaxRetries,
		"max-retries",
		defaultMaxRetries,
		"HTTPリクエストのリトライ最大回数",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.PriceURL,
		"url",
		oilprice.DefaultEndpoint,
		"油価XMLフィードのURL",
	)
	rootCmd.PersistentFlags().StringVar(
		&Flags.FuelFilter,
		"filter",
		"",
		"油種名の部分一致フィルタ (例: Gasohol)",
	)

	rootCmd.AddCommand(rawCmd)
}
