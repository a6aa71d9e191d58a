package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/nutrition"
	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/temperature"
	"recipe-normalizer/internal/core/unit"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

const nutritionCacheNamespace = "nutrition"

// Service 食譜編輯的主機端服務：呼叫換算引擎、補上產率建議並轉交營養分析
type Service struct {
	config   *config.Config
	engine   *ingredient.Engine
	cache    cache.Store
	analyzer nutrition.Analyzer
}

// NewService 創建新的食譜服務。analyzer 為 nil 時營養分析不可用。
func NewService(cfg *config.Config, engine *ingredient.Engine, store cache.Store, analyzer nutrition.Analyzer) *Service {
	return &Service{
		config:   cfg,
		engine:   engine,
		cache:    store,
		analyzer: analyzer,
	}
}

// Engine 換算引擎
func (s *Service) Engine() *ingredient.Engine {
	return s.engine
}

// DefaultSystem 設定中的預設制度
func (s *Service) DefaultSystem() unit.System {
	return s.config.Engine.System()
}

// ParseQuantity 解析數量字串
func (s *Service) ParseQuantity(text string) (quantity.Quantity, error) {
	q, err := quantity.Parse(text)
	if err != nil {
		common.LogDebug("數量無法解析", zap.String("text", text))
		return quantity.Quantity{}, err
	}
	return q, nil
}

// ClassifyUnit 分類單位文字
func (s *Service) ClassifyUnit(text string) unit.Unit {
	return s.engine.Units().Classify(text)
}

// ConvertQuantity 單筆數量換算，to 為空時換算到 target 制度的最佳單位
func (s *Service) ConvertQuantity(text, from, to string, target unit.System) (quantity.Quantity, unit.Unit, error) {
	q, err := s.ParseQuantity(text)
	if err != nil {
		return quantity.Quantity{}, unit.Unit{}, err
	}
	units := s.engine.Units()
	fromUnit := units.Classify(from)
	if to == "" {
		return units.ConvertSystem(q, fromUnit, target)
	}
	toUnit := units.Classify(to)
	if !fromUnit.Convertible() || !toUnit.Convertible() {
		return quantity.Quantity{}, unit.Unit{}, fmt.Errorf("%w: %q → %q", unit.ErrNotConvertible, from, to)
	}
	converted, err := units.Convert(q, fromUnit, toUnit)
	if err != nil {
		return quantity.Quantity{}, unit.Unit{}, err
	}
	return converted, toUnit, nil
}

// ParseLine 解析單行食材。回傳的 bool 表示是否成功拆分；未拆分時原文保留為品項。
func (s *Service) ParseLine(ctx context.Context, line string) (ingredient.Row, bool) {
	row, err := s.engine.Parser().ParseLine(line)
	if err != nil {
		common.LogDebug("食材行未拆分", zap.String("line", line), zap.Error(err))
		return ingredient.Row{Item: line}, false
	}
	return s.suggestYield(row), true
}

// ParseLines 解析多行貼上的食材，行數超過上限時回傳錯誤
func (s *Service) ParseLines(ctx context.Context, text string) ([]ingredient.Row, error) {
	rows := s.engine.Parser().ParseLines(text)
	if len(rows) > s.config.Engine.MaxLines {
		return nil, common.ErrTooManyIngredients.WithErr(fmt.Errorf("%d lines exceeds limit %d", len(rows), s.config.Engine.MaxLines))
	}
	for i := range rows {
		rows[i] = s.suggestYield(rows[i])
	}
	common.LogInfo("食材已解析", zap.Int("rows", len(rows)))
	return rows, nil
}

// suggestYield 設定開啟且列未指定產率時，依關鍵字補上建議產率
func (s *Service) suggestYield(row ingredient.Row) ingredient.Row {
	if !s.config.Engine.SuggestYield || row.YieldPercent != nil {
		return row
	}
	if p, ok := ingredient.SuggestYield(row); ok {
		row.YieldPercent = &p
	}
	return row
}

// ConvertRows 切換制度
func (s *Service) ConvertRows(ctx context.Context, rows []ingredient.Row, target unit.System) []ingredient.Row {
	out := s.engine.ConvertRows(rows, target)
	common.LogDebug("食材已換算", zap.Int("rows", len(rows)), zap.Stringer("system", target))
	return out
}

// NormalizeRows 在各列自身制度內選擇最佳單位
func (s *Service) NormalizeRows(ctx context.Context, rows []ingredient.Row) []ingredient.Row {
	out := make([]ingredient.Row, len(rows))
	for i, row := range rows {
		out[i] = s.engine.NormalizeRow(row)
	}
	return out
}

// ScaleRows 以倍率縮放
func (s *Service) ScaleRows(ctx context.Context, rows []ingredient.Row, factor quantity.Quantity) []ingredient.Row {
	common.LogDebug("食材已縮放", zap.Int("rows", len(rows)), zap.String("factor", factor.String()))
	return ingredient.ScaleRows(rows, factor)
}

// ConvertRecipe 整份食譜切換制度
func (s *Service) ConvertRecipe(ctx context.Context, r ingredient.Recipe, target unit.System) ingredient.Recipe {
	return s.engine.ConvertRecipe(r, target)
}

// ScaleRecipe 依目標份數縮放整份食譜
func (s *Service) ScaleRecipe(ctx context.Context, r ingredient.Recipe, target quantity.Quantity) (ingredient.Recipe, quantity.Quantity) {
	out, factor := ingredient.ScaleRecipe(r, target)
	common.LogDebug("食譜已縮放", zap.String("portions", target.String()), zap.String("factor", factor.String()))
	return out, factor
}

// AggregateYield 彙總批次產量。rows 由呼叫端提供的不可變快照。
func (s *Service) AggregateYield(ctx context.Context, rows []ingredient.Row, system unit.System) ingredient.Batch {
	b := s.engine.AggregateYield(rows, system)
	if b.Skipped > 0 {
		common.LogDebug("批次產量略過部分食材", zap.Int("included", b.Included), zap.Int("skipped", b.Skipped))
	}
	return b
}

// ConvertTemperatureField 轉換溫度欄位
func (s *Service) ConvertTemperatureField(text string, target unit.System) string {
	return temperature.ConvertField(text, target)
}

// ConvertTemperatureText 轉換步驟文字中的溫度
func (s *Service) ConvertTemperatureText(text string, target unit.System) string {
	return temperature.ConvertText(text, target)
}

// AnalyzeNutrition 將列轉成可讀字串交給營養分析服務，結果依內容雜湊快取
func (s *Service) AnalyzeNutrition(ctx context.Context, title string, rows []ingredient.Row) (*nutrition.Analysis, error) {
	if s.analyzer == nil {
		return nil, common.ErrNutritionDisabled
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := row.Line(s.engine.Units()); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, common.ErrInvalidRequest.WithErr(errors.New("no ingredient lines"))
	}

	key := cache.Key(nutritionCacheNamespace, append([]string{title}, lines...)...)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	start := time.Now()
	analysis, err := s.analyzer.Analyze(ctx, title, lines)
	if err != nil {
		return nil, err
	}
	common.LogInfo("營養分析完成", zap.Int("lines", len(lines)), zap.Duration("耗時", time.Since(start)))

	s.toCache(ctx, key, analysis)
	return analysis, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (*nutrition.Analysis, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var analysis nutrition.Analysis
	if err := common.ParseJSONBytes([]byte(data), &analysis); err != nil {
		common.LogWarn("快取內容無法解析", zap.String("鍵", key), zap.Error(err))
		return nil, false
	}
	analysis.Cached = true
	return &analysis, true
}

func (s *Service) toCache(ctx context.Context, key string, analysis *nutrition.Analysis) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		common.LogWarn("營養分析結果無法序列化", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data)); err != nil {
		common.LogWarn("營養分析結果寫入快取失敗", zap.String("鍵", key), zap.Error(err))
	}
}
