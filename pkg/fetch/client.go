package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-oil-price/pkg/retry"
)

const (
	// DefaultHTTPTimeout はデフォルトのHTTPタイムアウトです。
	DefaultHTTPTimeout = 10 * time.Second

	// MaxBodySize はレスポンスボディの最大読み込みサイズです。
	// 油価フィードは数KBしかないため、これで十分に余裕があります。
	MaxBodySize = int64(2 * 1024 * 1024) // 2MB

	// サイトからのブロックを避けるためのUser-Agent
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
)

// ----------------------------------------------------------------------
// インターフェースとエラー型
// ----------------------------------------------------------------------

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントの
// インターフェースです。テストではモックに差し替えます。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher は、URLから生のバイト列を取得する機能のインターフェースです。
// パーサはこの抽象の出力のみを受け取り、通信の詳細には依存しません。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// StatusError は、200 OK 以外のステータスコードが返されたことを示す
// エラー型です。呼び出し側は errors.As で取り出してステータスコードと
// URLを診断メッセージに使えます。
type StatusError struct {
	StatusCode int
	URL        string
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("HTTPステータスコードエラー: %d (%s), ボディ: %s", e.StatusCode, e.URL, strings.TrimSpace(string(e.Body)))
	}
	return fmt.Sprintf("HTTPステータスコードエラー: %d (%s), ボディなし", e.StatusCode, e.URL)
}

// AsStatusError は、err がステータスコード起因のエラーであればそれを
// 返します。
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// ----------------------------------------------------------------------
// 設定とコンストラクタ
// ----------------------------------------------------------------------

// Client はHTTP GETとリトライロジックを管理します。
type Client struct {
	httpClient  Doer
	retryConfig retry.Config
}

// Option はClientの設定を行うための関数型です。
type Option func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithMaxRetries は最大リトライ回数を設定します。デフォルトは0回です。
func WithMaxRetries(max uint64) Option {
	return func(c *Client) {
		c.retryConfig.MaxRetries = max
	}
}

// New は、新しいClientを生成します。timeout が0以下の場合はデフォルト値を
// 使用します。
func New(timeout time.Duration, options ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryConfig: retry.DefaultConfig(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// ----------------------------------------------------------------------
// フェッチ処理
// ----------------------------------------------------------------------

// FetchBytes は、URLにGETリクエストを送り、レスポンスボディを
// バイト列として返します。200 OK 以外は *StatusError を返します。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	op := func() error {
		var fetchErr error
		body, fetchErr = c.doFetch(ctx, url)
		return fetchErr
	}

	err := retry.Do(
		ctx,
		c.retryConfig,
		fmt.Sprintf("URL(%s)のフェッチ", url),
		op,
		isRetryableError,
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// doFetch は実際の一度のHTTP GETリクエストを実行します。
func (c *Client) doFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	limitedReader := io.LimitReader(resp.Body, MaxBodySize)
	bodyBytes, readErr := io.ReadAll(limitedReader)

	if resp.StatusCode != http.StatusOK {
		// 診断用にボディの断片を保持する。読み込みに失敗していても
		// ステータスコードとURLは返せる。
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
		}
		if readErr == nil {
			statusErr.Body = bodyBytes
		}
		return nil, statusErr
	}

	if readErr != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", readErr)
	}
	return bodyBytes, nil
}

// isRetryableError は、リトライが有効な場合にエラーが再試行に値するか
// どうかを判定します。5xx系とネットワークエラーのみ再試行し、4xx系は
// 永続エラーとして扱います。
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if statusErr, ok := AsStatusError(err); ok {
		return statusErr.StatusCode >= 500 && statusErr.StatusCode <= 599
	}

	// ネットワーク/接続エラーはリトライ対象
	return true
}
