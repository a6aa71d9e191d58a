package unit

import (
	"errors"
	"fmt"

	"recipe-normalizer/internal/core/quantity"
)

var (
	// ErrDimensionMismatch 不同量綱之間不可換算
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNotConvertible 計數或未知單位不在換算階梯上
	ErrNotConvertible = errors.New("unit not convertible")
)

// rung 階梯中的一階，multiple 為相當於最小單位的倍數
type rung struct {
	code     Code
	multiple quantity.Quantity
}

// ladder 某量綱與制度的單位階梯，由大到小排列
type ladder struct {
	smallest quantity.Quantity // 最小單位相當的基準量
	rungs    []rung
}

type ladderKey struct {
	dim    Dimension
	system System
}

var mult = quantity.FromInt

// 英制體積以茶匙為單位：Gallon=768、Quart=192、Pint=96、Cup=48、FlOz=6、Tbsp=3、Tsp=1
var ladders = map[ladderKey]ladder{
	{Volume, Imperial}: {teaspoonML, []rung{
		{GALLON, mult(768)}, {QUART, mult(192)}, {PINT, mult(96)}, {CUP, mult(48)}, {FLOZ, mult(6)}, {TBSP, mult(3)}, {TSP, mult(1)},
	}},
	{Mass, Imperial}: {ounceG, []rung{{LBS, mult(16)}, {OZ, mult(1)}}},
	{Volume, Metric}: {mult(1), []rung{{L, mult(1000)}, {ML, mult(1)}}},
	{Mass, Metric}:   {mult(1), []rung{{KG, mult(1000)}, {G, mult(1)}}},
}

// Ladder 回傳某量綱與制度的單位代碼，由大到小
func Ladder(dim Dimension, system System) []Code {
	l := ladders[ladderKey{dim, system}]
	out := make([]Code, len(l.rungs))
	for i, r := range l.rungs {
		out[i] = r.code
	}
	return out
}

// BaseFactor 每單位相當的基準量（毫升或公克）
func (t *Table) BaseFactor(u Unit) (quantity.Quantity, error) {
	if !u.Convertible() {
		return quantity.Quantity{}, fmt.Errorf("%w: %q", ErrNotConvertible, u.Name())
	}
	return definitions[u.Code].base, nil
}

// ToBase 將數量換算為基準單位
func (t *Table) ToBase(q quantity.Quantity, u Unit) (quantity.Quantity, error) {
	factor, err := t.BaseFactor(u)
	if err != nil {
		return quantity.Quantity{}, err
	}
	return q.Mul(factor), nil
}

// Convert 兩個單位之間的精確換算，不做四捨五入
func (t *Table) Convert(q quantity.Quantity, from, to Unit) (quantity.Quantity, error) {
	if from.Known && to.Known && from.Code == to.Code {
		return q, nil
	}
	if from.Dimension != to.Dimension {
		return quantity.Quantity{}, fmt.Errorf("%w: %s to %s", ErrDimensionMismatch, from.Dimension, to.Dimension)
	}
	base, err := t.ToBase(q, from)
	if err != nil {
		return quantity.Quantity{}, err
	}
	factor, err := t.BaseFactor(to)
	if err != nil {
		return quantity.Quantity{}, err
	}
	return base.Quo(factor), nil
}

// ConvertSystem 跨制度換算並選擇最佳單位。單位已屬目標制度時原樣回傳。
func (t *Table) ConvertSystem(q quantity.Quantity, from Unit, target System) (quantity.Quantity, Unit, error) {
	if !from.Convertible() {
		return q, from, fmt.Errorf("%w: %q", ErrNotConvertible, from.Name())
	}
	if from.System == target {
		return q, from, nil
	}
	base, err := t.ToBase(q, from)
	if err != nil {
		return q, from, err
	}
	best, unit := t.BestUnit(base, from.Dimension, target)
	return best, unit, nil
}

// Renormalize 在單位自身的制度內重新選擇最佳單位
func (t *Table) Renormalize(q quantity.Quantity, u Unit) (quantity.Quantity, Unit, error) {
	if !u.Convertible() {
		return q, u, fmt.Errorf("%w: %q", ErrNotConvertible, u.Name())
	}
	base, err := t.ToBase(q, u)
	if err != nil {
		return q, u, err
	}
	best, unit := t.BestUnit(base, u.Dimension, u.System)
	return best, unit, nil
}

// BestUnit 由大到小走訪階梯，選擇第一個不大於數量的單位，數值四捨五入到兩位小數。
// 計數量綱原樣回傳 EACH。
func (t *Table) BestUnit(base quantity.Quantity, dim Dimension, system System) (quantity.Quantity, Unit) {
	l, ok := ladders[ladderKey{dim, system}]
	if !ok {
		return base, t.MustLookup(EACH)
	}

	// 先以最小單位表示並取兩位小數，避免 71.9995 茶匙落在錯誤的階
	small := base.Quo(l.smallest).Round(quantity.DisplayPlaces)

	idx := len(l.rungs) - 1
	for i, r := range l.rungs {
		if r.multiple.Cmp(small) <= 0 {
			idx = i
			break
		}
	}

	value := small.Quo(l.rungs[idx].multiple).Round(quantity.DisplayPlaces)

	// 四捨五入後若達到上一階的門檻，改用上一階
	if idx > 0 {
		upper := l.rungs[idx-1]
		if value.Cmp(upper.multiple.Quo(l.rungs[idx].multiple)) >= 0 {
			idx--
			value = small.Quo(upper.multiple).Round(quantity.DisplayPlaces)
		}
	}

	return value, t.MustLookup(l.rungs[idx].code)
}

// BestUnit 使用預設查詢表選擇最佳單位
func BestUnit(base quantity.Quantity, dim Dimension, system System) (quantity.Quantity, Unit) {
	return defaultTable.BestUnit(base, dim, system)
}

// ConvertSystem 使用預設查詢表跨制度換算
func ConvertSystem(q quantity.Quantity, from Unit, target System) (quantity.Quantity, Unit, error) {
	return defaultTable.ConvertSystem(q, from, target)
}
