package oilprice

import (
	"sort"
	"strings"
)

// DefaultEndpoint は、バンチャーク社が公開している油価XMLの取得先URLです。
const DefaultEndpoint = "https://www.bangchak.co.th/api/oilprice"

// Fuel は、1油種分の価格レコードです。
// 価格はデータソースの文字列をそのまま保持します（数値化は表示側の責務）。
// 存在しないタグは空文字列になります。image / image2 タグはデータモデルに
// 含めません。
type Fuel struct {
	Type      string // 正規化済みの油種名
	Today     string // 本日の価格
	Tomorrow  string // 明日の価格
	Yesterday string // 昨日の価格
	UnitTH    string // 単位表記（タイ語）
	UnitEN    string // 単位表記（英語）
}

// Report は、1回のパース結果です。公開日時と油種レコードのリストを
// 値として返します。共有状態への副作用はありません。
type Report struct {
	// UpdateDate は、データセット自身が宣言する価格改定日時の文字列です。
	// HTTPレスポンスのメタデータとは独立しています。
	UpdateDate string

	// Fuels は、XMLドキュメント内の item 要素の出現順を保持します。
	Fuels []Fuel
}

// ----------------------------------------------------------------------
// CLI向けの補助関数（コアの外側のラッパー処理）
// ----------------------------------------------------------------------

// FilterByType は、正規化済みの油種名に substring を含むレコードだけを
// 返します。substring が空の場合は入力をそのまま返します。
func FilterByType(fuels []Fuel, substring string) []Fuel {
	if substring == "" {
		return fuels
	}
	filtered := make([]Fuel, 0, len(fuels))
	for _, f := range fuels {
		if strings.Contains(f.Type, substring) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// SortByType は、油種名の辞書順にソートした新しいスライスを返します。
// 入力スライスは変更しません。
func SortByType(fuels []Fuel) []Fuel {
	sorted := make([]Fuel, len(fuels))
	copy(sorted, fuels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Type < sorted[j].Type
	})
	return sorted
}
