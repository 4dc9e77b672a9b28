package oilprice

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// ----------------------------------------------------------------------
// エラー定義
// ----------------------------------------------------------------------

var (
	// ErrMalformedInput は、入力がXMLドキュメントとして解析できない場合の
	// エラーです。
	ErrMalformedInput = errors.New("入力をXMLとして解析できません")

	// ErrMissingField は、必須の update_date 要素が存在しない場合の
	// エラーです。
	ErrMissingField = errors.New("必須要素がありません")
)

// ----------------------------------------------------------------------
// XMLスキーマの内部表現
// ----------------------------------------------------------------------

// xmlText は、要素の有無と本文を区別するためのラッパーです。
// ポインタ経由で使うことで「要素なし」(nil) と「本文が空」("") を
// 区別できます。
type xmlText struct {
	Value string `xml:",chardata"`
}

// xmlItem は item 要素の子要素を写し取ります。
// image / image2 はフィールドを定義しないことで無条件に捨てられます。
type xmlItem struct {
	Type      string `xml:"type"`
	Today     string `xml:"today"`
	Tomorrow  string `xml:"tomorrow"`
	Yesterday string `xml:"yesterday"`
	UnitTH    string `xml:"unit_th"`
	UnitEN    string `xml:"unit_en"`
}

// xmlDocument はフィード全体です。ルート要素名には依存しません。
type xmlDocument struct {
	UpdateDate *xmlText  `xml:"update_date"`
	Items      []xmlItem `xml:"item"`
}

// ----------------------------------------------------------------------
// パーサ本体
// ----------------------------------------------------------------------

// Parse は、油価XMLのバイト列を解析し、公開日時と油種レコードのリストを
// 返します。item 要素の出現順は保持され、子要素の本文が空の場合は
// 空文字列になります（エラーにはしません）。
//
// 解析できない入力には ErrMalformedInput を、update_date 要素が
// 存在しない場合には ErrMissingField をラップしたエラーを返します。
func Parse(data []byte) (*Report, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if doc.UpdateDate == nil {
		return nil, fmt.Errorf("%w: update_date", ErrMissingField)
	}

	fuels := make([]Fuel, 0, len(doc.Items))
	for _, it := range doc.Items {
		fuels = append(fuels, Fuel{
			Type:      NormalizeType(it.Type),
			Today:     it.Today,
			Tomorrow:  it.Tomorrow,
			Yesterday: it.Yesterday,
			UnitTH:    it.UnitTH,
			UnitEN:    it.UnitEN,
		})
	}

	return &Report{
		UpdateDate: doc.UpdateDate.Value,
		Fuels:      fuels,
	}, nil
}
