package oilprice

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeType は、データソースが油種名に付与するブランド修飾子
// 「S」「EVO」を取り除き、タイトルケースに整えた表示名を返します。
// 「Gasohol 91 S」と「Gasohol 91」は同一グレードを指すため、修飾子を
// 落とすことで表示名が一本化されます。
//
// 適用順序に意味があります。まず空白で挟まれた " S " を先に潰すことで、
// 語中にトークンとして現れる S を安全に処理し、末尾の " S" は最後に
// 接尾辞として落とします。変換は冪等です。
func NormalizeType(raw string) string {
	s := strings.ReplaceAll(raw, " S ", " ")
	s = strings.ReplaceAll(s, " EVO", "")
	s = strings.TrimSuffix(s, " S")

	// cases.Caser は並行利用できないため、呼び出しごとに生成します。
	return cases.Title(language.Und).String(s)
}
