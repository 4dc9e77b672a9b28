package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDoer は http.Client の Do メソッドをモックします。
// Doer インターフェースを満たします。
type MockDoer struct {
	mock.Mock
}

func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	err := args.Error(1)

	if args.Get(0) != nil {
		return args.Get(0).(*http.Response), err
	}
	return nil, err
}

func okResponse(body []byte) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func TestNew(t *testing.T) {
	t.Run("default timeout", func(t *testing.T) {
		client := New(0)
		assert.Equal(t, DefaultHTTPTimeout, client.httpClient.(*http.Client).Timeout)
	})

	t.Run("custom timeout", func(t *testing.T) {
		timeout := 30 * time.Second
		client := New(timeout)
		assert.Equal(t, timeout, client.httpClient.(*http.Client).Timeout)
	})

	t.Run("with HTTP client option", func(t *testing.T) {
		mockClient := new(MockDoer)
		client := New(10*time.Second, WithHTTPClient(mockClient))
		assert.Equal(t, mockClient, client.httpClient)
	})

	t.Run("retries disabled by default", func(t *testing.T) {
		client := New(0)
		assert.Equal(t, uint64(0), client.retryConfig.MaxRetries)
	})
}

func TestFetchBytes(t *testing.T) {
	ctx := context.Background()

	t.Run("successful fetch", func(t *testing.T) {
		const body = `<root><update_date>24/08/2026</update_date></root>`

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			io.WriteString(w, body)
		}))
		defer server.Close()

		client := New(0)
		got, err := client.FetchBytes(ctx, server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte(body), got)
		assert.Equal(t, UserAgent, gotUA)
	})

	t.Run("non-200 returns StatusError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := New(0)
		got, err := client.FetchBytes(ctx, server.URL)
		require.Error(t, err)
		assert.Nil(t, got)

		statusErr, ok := AsStatusError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Equal(t, server.URL, statusErr.URL)
	})

	t.Run("network error is not a StatusError", func(t *testing.T) {
		mockClient := new(MockDoer)
		var resp *http.Response
		mockClient.On("Do", mock.Anything).Return(resp, errors.New("network error")).Once()

		client := New(0, WithHTTPClient(mockClient))
		got, err := client.FetchBytes(ctx, "https://example.com")
		require.Error(t, err)
		assert.Nil(t, got)

		_, ok := AsStatusError(err)
		assert.False(t, ok)

		// デフォルトではリトライしないため、呼び出しは1回のみ
		mockClient.AssertNumberOfCalls(t, "Do", 1)
		mockClient.AssertExpectations(t)
	})
}

// --- リトライロジックの検証テスト ---
func TestFetchBytes_WithRetries(t *testing.T) {
	ctx := context.Background()
	url := "https://example.com"

	newFastRetryClient := func(doer Doer, maxRetries uint64) *Client {
		client := New(0, WithHTTPClient(doer), WithMaxRetries(maxRetries))
		// テストを高速化するためバックオフ間隔を縮める
		client.retryConfig.InitialInterval = time.Millisecond
		client.retryConfig.MaxInterval = 5 * time.Millisecond
		return client
	}

	t.Run("successful fetch after retries", func(t *testing.T) {
		mockClient := new(MockDoer)
		expectedBody := []byte("Success")
		var resp *http.Response

		// 1回目: ネットワークエラー (リトライ対象)
		mockClient.On("Do", mock.Anything).Return(resp, errors.New("temporary network error")).Once()
		// 2回目: サーバーエラー (リトライ対象)
		mockClient.On("Do", mock.Anything).Return(&http.Response{
			StatusCode: http.StatusGatewayTimeout,
			Body:       io.NopCloser(bytes.NewReader(nil)),
		}, nil).Once()
		// 3回目: 成功 (リトライ終了)
		mockClient.On("Do", mock.Anything).Return(okResponse(expectedBody), nil).Once()

		client := newFastRetryClient(mockClient, 2)
		body, err := client.FetchBytes(ctx, url)
		require.NoError(t, err)
		assert.Equal(t, expectedBody, body)
		mockClient.AssertNumberOfCalls(t, "Do", 3)
		mockClient.AssertExpectations(t)
	})

	t.Run("failure after all retries exhausted", func(t *testing.T) {
		mockClient := new(MockDoer)
		var resp *http.Response

		// MaxRetries=2 のため、Doは合計3回（初回＋2回リトライ）呼ばれる
		mockClient.On("Do", mock.Anything).Return(resp, errors.New("network error")).Times(3)

		client := newFastRetryClient(mockClient, 2)
		body, err := client.FetchBytes(ctx, url)
		require.Error(t, err)
		assert.Nil(t, body)
		mockClient.AssertNumberOfCalls(t, "Do", 3)
	})

	t.Run("4xx stops immediately", func(t *testing.T) {
		mockClient := new(MockDoer)
		mockClient.On("Do", mock.Anything).Return(&http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewReader([]byte("not found"))),
		}, nil).Once()

		client := newFastRetryClient(mockClient, 3)
		body, err := client.FetchBytes(ctx, url)
		require.Error(t, err)
		assert.Nil(t, body)

		statusErr, ok := AsStatusError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

		// 非リトライ対象のため1回しか呼ばれない
		mockClient.AssertNumberOfCalls(t, "Do", 1)
	})
}

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *StatusError
		expected string
	}{
		{
			"with body",
			&StatusError{StatusCode: 404, URL: "https://example.com", Body: []byte("not found\n")},
			"HTTPステータスコードエラー: 404 (https://example.com), ボディ: not found",
		},
		{
			"without body",
			&StatusError{StatusCode: 503, URL: "https://example.com"},
			"HTTPステータスコードエラー: 503 (https://example.com), ボディなし",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
