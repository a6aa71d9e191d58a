// Package ingredient 將食材行解析為結構化資料，並提供換算、縮放與批次產量彙總。
// 所有操作皆為純函式：輸入不被修改，回傳新的列資料。
package ingredient

import (
	"math"
	"strings"

	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
)

// DefaultYieldPercent 未指定產率時的預設值
const DefaultYieldPercent = 100.0

// Money 金額，僅隨列資料傳遞
type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// Row 食材列。Quantity 為使用者可見的數量文字，Unit 為標準代碼或未知單位的原始標籤。
type Row struct {
	Quantity     string   `json:"quantity"`
	Unit         string   `json:"unit"`
	Item         string   `json:"item"`
	Prep         string   `json:"prep,omitempty"`
	YieldPercent *float64 `json:"yield_percent,omitempty"`
	Cost         *Money   `json:"cost,omitempty"`
	SubRecipeID  string   `json:"sub_recipe_id,omitempty"` // 子食譜參照，僅原樣傳遞
}

// ParsedQuantity 解析數量文字
func (r Row) ParsedQuantity() (quantity.Quantity, error) {
	return quantity.Parse(r.Quantity)
}

// YieldFraction 產率比例：未指定為 1，超出範圍時夾在 [0, 1]
func (r Row) YieldFraction() quantity.Quantity {
	p := DefaultYieldPercent
	if r.YieldPercent != nil && !math.IsNaN(*r.YieldPercent) {
		p = math.Max(0, math.Min(100, *r.YieldPercent))
	}
	return quantity.FromFloat(p).Quo(quantity.FromInt(100))
}

// Line 組合成可讀的食材字串，例如 "1.5 cup onion, diced"，供外部營養分析使用
func (r Row) Line(units *unit.Table) string {
	parts := make([]string, 0, 3)
	if q := strings.TrimSpace(r.Quantity); q != "" {
		parts = append(parts, q)
	}
	if r.Unit != "" {
		u := units.Classify(r.Unit)
		if !(u.Known && u.Code == unit.EACH) {
			parts = append(parts, u.Label)
		}
	}
	if r.Item != "" {
		parts = append(parts, r.Item)
	}
	line := strings.Join(parts, " ")
	if r.Prep != "" {
		line += ", " + r.Prep
	}
	return line
}

// Measure 數量與單位
type Measure struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Portion 份數與每份份量
type Portion struct {
	Count string `json:"count"`
	Size  string `json:"size,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// Recipe 有序的食材列與產量、份量目標
type Recipe struct {
	Rows    []Row   `json:"rows"`
	Yield   Measure `json:"yield"`
	Portion Portion `json:"portion"`
}
