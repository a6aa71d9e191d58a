package ingredient

import (
	"recipe-normalizer/internal/core/quantity"
)

// ScaleFactor 目標份數除以目前份數；目前份數非正數時視為 1
func ScaleFactor(target, current quantity.Quantity) quantity.Quantity {
	if current.Sign() <= 0 {
		current = quantity.FromInt(1)
	}
	return target.Quo(current)
}

// ScaleRows 將每列數量乘上倍率，單位不變。數量無法解析的列原樣保留。
// 倍率為 1 時不重新格式化，原始文字維持不變。
func ScaleRows(rows []Row, factor quantity.Quantity) []Row {
	out := make([]Row, len(rows))
	if factor.Equal(quantity.FromInt(1)) {
		copy(out, rows)
		return out
	}
	for i, row := range rows {
		out[i] = scaleRow(row, factor)
	}
	return out
}

func scaleRow(row Row, factor quantity.Quantity) Row {
	q, err := row.ParsedQuantity()
	if err != nil {
		return row
	}
	row.Quantity = q.Mul(factor).Display()
	return row
}

// ScaleRecipe 依目標份數縮放食譜，產量同步縮放，回傳新食譜與實際倍率
func ScaleRecipe(r Recipe, target quantity.Quantity) (Recipe, quantity.Quantity) {
	current, err := quantity.Parse(r.Portion.Count)
	if err != nil {
		current = quantity.FromInt(1)
	}
	factor := ScaleFactor(target, current)

	out := r
	out.Rows = ScaleRows(r.Rows, factor)
	if q, err := quantity.Parse(r.Yield.Quantity); err == nil && !factor.Equal(quantity.FromInt(1)) {
		out.Yield.Quantity = q.Mul(factor).Display()
	}
	out.Portion.Count = target.Display()
	return out, factor
}
