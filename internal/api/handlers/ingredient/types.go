package ingredient

import (
	ingredientCore "recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/nutrition"
	"recipe-normalizer/internal/core/unit"
)

// QuantityRequest 數量解析請求
type QuantityRequest struct {
	Text string `json:"text" binding:"required"`
}

// QuantityResponse 數量解析結果
type QuantityResponse struct {
	Normalized string  `json:"normalized"` // 正規化後的文字
	Fraction   string  `json:"fraction"`   // 分數形式，例如 3/2
	Display    string  `json:"display"`    // 兩位小數顯示
	Value      float64 `json:"value"`
}

// ConvertUnitRequest 單筆單位換算請求。To 為空時換算到 System 的最佳單位。
type ConvertUnitRequest struct {
	Quantity string `json:"quantity" binding:"required"`
	From     string `json:"from" binding:"required"`
	To       string `json:"to,omitempty"`
	System   string `json:"system,omitempty"`
}

// MeasureResponse 換算結果
type MeasureResponse struct {
	Quantity string    `json:"quantity"`
	Unit     unit.Unit `json:"unit"`
}

// ParseRequest 食材解析請求，Line 為單行，Text 為多行貼上
type ParseRequest struct {
	Line string `json:"line,omitempty"`
	Text string `json:"text,omitempty"`
}

// ParseLineResponse 單行解析結果，Parsed 為 false 時原文保留為品項
type ParseLineResponse struct {
	Row    ingredientCore.Row `json:"row"`
	Parsed bool               `json:"parsed"`
}

// RowsRequest 多列操作請求
type RowsRequest struct {
	Rows   []ingredientCore.Row `json:"rows" binding:"required"`
	System string               `json:"system,omitempty"`
}

// RowsResponse 多列操作結果
type RowsResponse struct {
	Rows []ingredientCore.Row `json:"rows"`
}

// ScaleRowsRequest 縮放請求：直接給倍率，或給目標與目前份數
type ScaleRowsRequest struct {
	Rows    []ingredientCore.Row `json:"rows" binding:"required"`
	Factor  string               `json:"factor,omitempty"`
	Target  string               `json:"target,omitempty"`
	Current string               `json:"current,omitempty"`
}

// ScaleRowsResponse 縮放結果
type ScaleRowsResponse struct {
	Rows   []ingredientCore.Row `json:"rows"`
	Factor string               `json:"factor"`
}

// YieldResponse 批次產量
type YieldResponse struct {
	Quantity string    `json:"quantity"`
	Unit     unit.Unit `json:"unit"`
	VolumeML string    `json:"volume_ml"`
	MassG    string    `json:"mass_g"`
	Included int       `json:"included"`
	Skipped  int       `json:"skipped"`
}

// RecipeRequest 食譜層級請求
type RecipeRequest struct {
	Recipe   ingredientCore.Recipe `json:"recipe" binding:"required"`
	System   string                `json:"system,omitempty"`
	Portions string                `json:"portions,omitempty"`
}

// RecipeResponse 食譜層級結果
type RecipeResponse struct {
	Recipe ingredientCore.Recipe `json:"recipe"`
	Factor string                `json:"factor,omitempty"`
}

// TemperatureRequest 溫度轉換請求
type TemperatureRequest struct {
	Text   string `json:"text"`
	System string `json:"system" binding:"required"`
}

// TemperatureResponse 溫度轉換結果
type TemperatureResponse struct {
	Text string `json:"text"`
}

// NutritionRequest 營養分析請求，Rows 與 Text 擇一
type NutritionRequest struct {
	Title string               `json:"title,omitempty"`
	Rows  []ingredientCore.Row `json:"rows,omitempty"`
	Text  string               `json:"text,omitempty"`
}

// NutritionResponse 營養分析結果
type NutritionResponse struct {
	Analysis *nutrition.Analysis `json:"analysis"`
}
