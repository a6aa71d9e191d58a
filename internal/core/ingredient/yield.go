package ingredient

import (
	"strings"

	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
)

// Batch 批次產量彙總結果
type Batch struct {
	Volume   quantity.Quantity // 毫升
	Mass     quantity.Quantity // 公克
	Total    quantity.Quantity // 以 Unit 表示的理論總量
	Unit     unit.Unit
	Included int
	Skipped  int
}

// AggregateYield 依產率加總可換算的列。質量以 1 g ≈ 1 ml 併入理論總量，
// 再以目標制度的體積階梯選擇顯示單位。計數與未知單位的列略過。
func (e *Engine) AggregateYield(rows []Row, system unit.System) Batch {
	var b Batch
	for _, row := range rows {
		q, err := row.ParsedQuantity()
		if err != nil {
			b.Skipped++
			continue
		}
		u := e.units.Classify(row.Unit)
		if !u.Convertible() {
			b.Skipped++
			continue
		}
		base, err := e.units.ToBase(q, u)
		if err != nil {
			b.Skipped++
			continue
		}
		base = base.Mul(row.YieldFraction())
		switch u.Dimension {
		case unit.Volume:
			b.Volume = b.Volume.Add(base)
		case unit.Mass:
			b.Mass = b.Mass.Add(base)
		}
		b.Included++
	}

	b.Total, b.Unit = e.units.BestUnit(b.Volume.Add(b.Mass), unit.Volume, system)
	return b
}

// AggregateYield 使用預設引擎彙總
func AggregateYield(rows []Row, system unit.System) Batch {
	return defaultEngine.AggregateYield(rows, system)
}

// yieldHints 常見處理方式的可食率建議值（百分比）
var yieldHints = []struct {
	keyword string
	percent float64
}{
	{"deboned", 65},
	{"shelled", 45},
	{"cored", 80},
	{"peeled", 85},
	{"seeded", 85},
	{"deseeded", 85},
	{"pitted", 85},
	{"trimmed", 90},
	{"hulled", 90},
	{"stemmed", 90},
	{"skinned", 90},
}

// SuggestYield 依處理方式或品項中的關鍵字建議產率，僅供參考
func SuggestYield(row Row) (float64, bool) {
	for _, text := range []string{row.Prep, row.Item} {
		for _, word := range strings.FieldsFunc(strings.ToLower(text), splitWord) {
			for _, h := range yieldHints {
				if word == h.keyword {
					return h.percent, true
				}
			}
		}
	}
	return 0, false
}

func splitWord(r rune) bool {
	return r == ' ' || r == ',' || r == ';' || r == '-' || r == '/' || r == '(' || r == ')'
}
