// Package temperature 轉換烹調溫度：獨立的溫度欄位，以及嵌在步驟文字中的溫度。
package temperature

import (
	"strings"

	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
)

// Scale 溫標
type Scale int

const (
	Fahrenheit Scale = iota
	Celsius
)

func (s Scale) String() string {
	if s == Celsius {
		return "C"
	}
	return "F"
}

// ScaleFor 制度的原生溫標：英制為華氏，公制為攝氏
func ScaleFor(system unit.System) Scale {
	if system == unit.Metric {
		return Celsius
	}
	return Fahrenheit
}

var (
	thirtyTwo  = quantity.FromInt(32)
	fiveNinths = quantity.New(5, 9)
	nineFifths = quantity.New(9, 5)
	minusOne   = quantity.FromInt(-1)
)

// Convert 溫標換算，結果四捨五入到整數度
func Convert(v quantity.Quantity, from, to Scale) quantity.Quantity {
	switch {
	case from == to:
		return v
	case to == Celsius:
		return v.Sub(thirtyTwo).Mul(fiveNinths).Round(0)
	default:
		return v.Mul(nineFifths).Add(thirtyTwo).Round(0)
	}
}

// ConvertField 轉換獨立的溫度欄位。欄位數值依目標制度的相反溫標解讀，
// 例如切換到公制時 "350°F" → "177°C"。沒有數字時原樣回傳。
func ConvertField(text string, target unit.System) string {
	digits := fieldDigits(text)
	if digits == "" {
		return text
	}
	v, err := parseSigned(digits)
	if err != nil {
		return text
	}

	to := ScaleFor(target)
	from := Fahrenheit
	if to == Fahrenheit {
		from = Celsius
	}
	return Convert(v, from, to).Format(0) + "°" + to.String()
}

func parseSigned(number string) (quantity.Quantity, error) {
	v, err := quantity.Parse(strings.TrimPrefix(number, "-"))
	if err != nil {
		return quantity.Quantity{}, err
	}
	if strings.HasPrefix(number, "-") {
		v = v.Mul(minusOne)
	}
	return v, nil
}

// fieldDigits 只保留數字，數字前的負號保留
func fieldDigits(text string) string {
	var b strings.Builder
	negative := false
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case isDigit(c):
			b.WriteByte(c)
		case c == '-' && b.Len() == 0:
			// 僅緊接數字的 "-" 是負號，"Oven - 350°F" 中的破折號不算
			negative = i+1 < len(text) && isDigit(text[i+1])
		}
	}
	if b.Len() == 0 {
		return ""
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
