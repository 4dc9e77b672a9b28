package main

import (
	"github.com/shouni/go-oil-price/cmd"
)

// main 関数は cmd.Execute に処理を委譲します。エラーハンドリングは
// cmd 側で一元化されています。
func main() {
	cmd.Execute()
}
