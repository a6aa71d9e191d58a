package ingredient

import (
	"fmt"

	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
)

// Engine 以指定單位表執行列換算、縮放與彙總
type Engine struct {
	units  *unit.Table
	parser *Parser
}

// NewEngine 建立引擎
func NewEngine(units *unit.Table) *Engine {
	return &Engine{units: units, parser: NewParser(units)}
}

var defaultEngine = NewEngine(unit.Default())

// Default 使用預設單位表的引擎
func Default() *Engine {
	return defaultEngine
}

// Units 引擎使用的單位表
func (e *Engine) Units() *unit.Table {
	return e.units
}

// Parser 引擎使用的解析器
func (e *Engine) Parser() *Parser {
	return e.parser
}

// ConvertRow 將列切換到目標制度。數量無法解析、單位不可換算或已屬目標制度時原樣回傳。
func (e *Engine) ConvertRow(row Row, target unit.System) Row {
	q, u, ok := e.convertMeasure(row.Quantity, row.Unit, target)
	if !ok {
		return row
	}
	out := row
	out.Quantity = q
	out.Unit = u
	return out
}

// ConvertRowTo 換算到指定單位，量綱不同時回傳 unit.ErrDimensionMismatch
func (e *Engine) ConvertRowTo(row Row, target unit.Unit) (Row, error) {
	q, err := row.ParsedQuantity()
	if err != nil {
		return row, err
	}
	from := e.units.Classify(row.Unit)
	if !from.Convertible() || !target.Convertible() {
		return row, fmt.Errorf("%w: %q → %q", unit.ErrNotConvertible, from.Name(), target.Name())
	}
	converted, err := e.units.Convert(q, from, target)
	if err != nil {
		return row, err
	}
	out := row
	out.Quantity = converted.Display()
	out.Unit = target.Name()
	return out, nil
}

// NormalizeRow 在列自身的制度內選擇最佳單位，例如 "48 tsp" → "1 CUP"
func (e *Engine) NormalizeRow(row Row) Row {
	q, err := row.ParsedQuantity()
	if err != nil {
		return row
	}
	nq, nu, err := e.units.Renormalize(q, e.units.Classify(row.Unit))
	if err != nil {
		return row
	}
	out := row
	out.Quantity = nq.Display()
	out.Unit = nu.Name()
	return out
}

// ConvertRows 逐列切換制度
func (e *Engine) ConvertRows(rows []Row, target unit.System) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = e.ConvertRow(row, target)
	}
	return out
}

// ConvertRecipe 同步切換食材列、產量與每份份量的制度，使三者維持可比較
func (e *Engine) ConvertRecipe(r Recipe, target unit.System) Recipe {
	out := r
	out.Rows = e.ConvertRows(r.Rows, target)
	if q, u, ok := e.convertMeasure(r.Yield.Quantity, r.Yield.Unit, target); ok {
		out.Yield = Measure{Quantity: q, Unit: u}
	}
	if q, u, ok := e.convertMeasure(r.Portion.Size, r.Portion.Unit, target); ok {
		out.Portion.Size = q
		out.Portion.Unit = u
	}
	return out
}

func (e *Engine) convertMeasure(text, unitText string, target unit.System) (string, string, bool) {
	q, err := quantity.Parse(text)
	if err != nil {
		return "", "", false
	}
	from := e.units.Classify(unitText)
	if !from.Convertible() || from.System == target {
		return "", "", false
	}
	nq, nu, err := e.units.ConvertSystem(q, from, target)
	if err != nil {
		return "", "", false
	}
	return nq.Display(), nu.Name(), true
}

// ConvertRow 使用預設引擎切換制度
func ConvertRow(row Row, target unit.System) Row {
	return defaultEngine.ConvertRow(row, target)
}
