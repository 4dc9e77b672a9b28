// Package display は、パース済みの油価レポートを人間向けの
// テキストテーブルに整形します。
package display

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/shouni/go-oil-price/pkg/oilprice"
)

// ErrInvalidPrice は、価格フィールドを数値として解釈できない場合の
// エラーです。前日比の計算時のみ発生し、呼び出し側にそのまま返します。
var ErrInvalidPrice = errors.New("価格を数値として解釈できません")

// PrintDelta は、油種ごとに本日価格・前日比・明日価格・単位を整形して
// w に出力し、最後に公開日時を1行で出力します。
//
// 前日比は「本日 − 昨日」を小数2桁・符号付きで表記します（例: +0.50）。
// 価格の数値化には誤差のない10進演算を使います。
func PrintDelta(w io.Writer, report *oilprice.Report) error {
	fmt.Fprintf(w, "%-20s  Today        Tomorrow\n", "Fuel Type")

	for _, f := range report.Fuels {
		delta, err := deltaToday(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-20s  %5s %s  %6s %s\n", f.Type, f.Today, formatSigned(delta), f.Tomorrow, f.UnitEN)
	}

	fmt.Fprintln(w, report.UpdateDate)
	return nil
}

// PrintRaw は、昨日・本日・明日の価格をソースの文字列のまま列形式で
// w に出力します。数値変換は行いません。
func PrintRaw(w io.Writer, report *oilprice.Report) {
	fmt.Fprintf(w, "%-20s %-10s %-10s %-10s\n", "Fuel Type", "Yesterday", "Today", "Tomorrow")

	for _, f := range report.Fuels {
		fmt.Fprintf(w, "%-20s %-10s %-10s %-10s\n", f.Type, f.Yesterday, f.Today, f.Tomorrow)
	}
}

// deltaToday は「本日 − 昨日」の価格差を返します。
func deltaToday(f oilprice.Fuel) (decimal.Decimal, error) {
	today, err := decimal.NewFromString(f.Today)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s の today=%q", ErrInvalidPrice, f.Type, f.Today)
	}
	yesterday, err := decimal.NewFromString(f.Yesterday)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s の yesterday=%q", ErrInvalidPrice, f.Type, f.Yesterday)
	}
	return today.Sub(yesterday), nil
}

// formatSigned は、小数2桁・先頭符号付きの表記を返します。ゼロと正の値には
// 明示的に + を付けます。
func formatSigned(d decimal.Decimal) string {
	if d.Sign() < 0 {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
