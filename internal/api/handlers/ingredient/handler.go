// Package ingredient 提供食材解析、單位換算、縮放、產量與溫度的 HTTP 處理器。
package ingredient

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ingredientCore "recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/core/unit"
	"recipe-normalizer/internal/pkg/common"
)

// Handler 食材處理程序
type Handler struct {
	service *recipe.Service
	debug   bool
}

// NewHandler 創建新的食材處理程序
func NewHandler(service *recipe.Service, debug bool) *Handler {
	return &Handler{
		service: service,
		debug:   debug,
	}
}

// Register 註冊路由
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/quantity/parse", h.HandleParseQuantity)

	units := api.Group("/units")
	{
		units.GET("/classify", h.HandleClassifyUnit)
		units.POST("/convert", h.HandleConvertUnit)
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.POST("/parse", h.HandleParse)
		ingredients.POST("/convert", h.HandleConvertRows)
		ingredients.POST("/normalize", h.HandleNormalizeRows)
		ingredients.POST("/scale", h.HandleScaleRows)
		ingredients.POST("/yield", h.HandleYield)
	}

	recipes := api.Group("/recipes")
	{
		recipes.POST("/convert", h.HandleConvertRecipe)
		recipes.POST("/scale", h.HandleScaleRecipe)
	}

	temps := api.Group("/temperature")
	{
		temps.POST("/field", h.HandleTemperatureField)
		temps.POST("/text", h.HandleTemperatureText)
	}

	api.POST("/nutrition/analyze", h.HandleAnalyzeNutrition)
}

func requestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// bind 解析 JSON 請求，失敗時寫入 400
func (h *Handler) bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.abort(c, common.ErrInvalidRequest.WithErr(err))
		return false
	}
	return true
}

// system 解析請求中的制度，空白時使用預設值
func (h *Handler) system(c *gin.Context, name string) (unit.System, bool) {
	if name == "" {
		return h.service.DefaultSystem(), true
	}
	s, err := unit.ParseSystem(name)
	if err != nil {
		h.abort(c, common.ErrInvalidRequest.WithErr(err))
		return 0, false
	}
	return s, true
}

// HandleParseQuantity 解析數量
func (h *Handler) HandleParseQuantity(c *gin.Context) {
	var req QuantityRequest
	if !h.bind(c, &req) {
		return
	}

	q, err := h.service.ParseQuantity(req.Text)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, QuantityResponse{
		Normalized: quantity.Normalize(req.Text),
		Fraction:   q.String(),
		Display:    q.Display(),
		Value:      q.Float64(),
	})
}

// HandleClassifyUnit 分類單位，未知單位亦回傳 200
func (h *Handler) HandleClassifyUnit(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		h.abort(c, common.ErrInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, h.service.ClassifyUnit(text))
}

// HandleConvertUnit 單筆數量換算
func (h *Handler) HandleConvertUnit(c *gin.Context) {
	var req ConvertUnitRequest
	if !h.bind(c, &req) {
		return
	}
	sys, ok := h.system(c, req.System)
	if !ok {
		return
	}

	q, u, err := h.service.ConvertQuantity(req.Quantity, req.From, req.To, sys)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, MeasureResponse{Quantity: q.Display(), Unit: u})
}

// HandleParse 解析單行或多行食材
func (h *Handler) HandleParse(c *gin.Context) {
	var req ParseRequest
	if !h.bind(c, &req) {
		return
	}

	switch {
	case req.Text != "":
		rows, err := h.service.ParseLines(c.Request.Context(), req.Text)
		if err != nil {
			h.abort(c, err)
			return
		}
		c.JSON(http.StatusOK, RowsResponse{Rows: rows})
	case req.Line != "":
		row, parsed := h.service.ParseLine(c.Request.Context(), req.Line)
		c.JSON(http.StatusOK, ParseLineResponse{Row: row, Parsed: parsed})
	default:
		h.abort(c, common.ErrInvalidRequest)
	}
}

// HandleConvertRows 切換多列的制度，個別列失敗時原樣保留
func (h *Handler) HandleConvertRows(c *gin.Context) {
	var req RowsRequest
	if !h.bind(c, &req) {
		return
	}
	sys, ok := h.system(c, req.System)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, RowsResponse{Rows: h.service.ConvertRows(c.Request.Context(), req.Rows, sys)})
}

// HandleNormalizeRows 各列在自身制度內選擇最佳單位
func (h *Handler) HandleNormalizeRows(c *gin.Context) {
	var req RowsRequest
	if !h.bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, RowsResponse{Rows: h.service.NormalizeRows(c.Request.Context(), req.Rows)})
}

// HandleScaleRows 以倍率或份數縮放
func (h *Handler) HandleScaleRows(c *gin.Context) {
	var req ScaleRowsRequest
	if !h.bind(c, &req) {
		return
	}

	factor, err := h.scaleFactor(req)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, ScaleRowsResponse{
		Rows:   h.service.ScaleRows(c.Request.Context(), req.Rows, factor),
		Factor: factor.String(),
	})
}

func (h *Handler) scaleFactor(req ScaleRowsRequest) (quantity.Quantity, error) {
	if req.Factor != "" {
		return h.service.ParseQuantity(req.Factor)
	}
	target, err := h.service.ParseQuantity(req.Target)
	if err != nil {
		return quantity.Quantity{}, err
	}
	current, err := h.service.ParseQuantity(req.Current)
	if err != nil {
		current = quantity.FromInt(1)
	}
	return ingredientCore.ScaleFactor(target, current), nil
}

// HandleYield 彙總批次產量，無法換算的列略過
func (h *Handler) HandleYield(c *gin.Context) {
	var req RowsRequest
	if !h.bind(c, &req) {
		return
	}
	sys, ok := h.system(c, req.System)
	if !ok {
		return
	}

	b := h.service.AggregateYield(c.Request.Context(), req.Rows, sys)
	c.JSON(http.StatusOK, YieldResponse{
		Quantity: b.Total.Display(),
		Unit:     b.Unit,
		VolumeML: b.Volume.Display(),
		MassG:    b.Mass.Display(),
		Included: b.Included,
		Skipped:  b.Skipped,
	})
}

// HandleConvertRecipe 整份食譜切換制度
func (h *Handler) HandleConvertRecipe(c *gin.Context) {
	var req RecipeRequest
	if !h.bind(c, &req) {
		return
	}
	sys, ok := h.system(c, req.System)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, RecipeResponse{Recipe: h.service.ConvertRecipe(c.Request.Context(), req.Recipe, sys)})
}

// HandleScaleRecipe 依目標份數縮放整份食譜
func (h *Handler) HandleScaleRecipe(c *gin.Context) {
	var req RecipeRequest
	if !h.bind(c, &req) {
		return
	}
	target, err := h.service.ParseQuantity(req.Portions)
	if err != nil {
		h.abort(c, err)
		return
	}

	out, factor := h.service.ScaleRecipe(c.Request.Context(), req.Recipe, target)
	c.JSON(http.StatusOK, RecipeResponse{Recipe: out, Factor: factor.String()})
}

// HandleTemperatureField 轉換溫度欄位
func (h *Handler) HandleTemperatureField(c *gin.Context) {
	var req TemperatureRequest
	if !h.bind(c, &req) {
		return
	}
	sys, ok := h.system(c, req.System)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, TemperatureResponse{Text: h.service.ConvertTemperatureField(req.Text, sys)})
}

// HandleTemperatureText 轉換步驟文字中的溫度
func (h *Handler) HandleTemperatureText(c *gin.Context) {
	var req TemperatureRequest
	if !h.bind(c, &req) {
		return
	}
	sys, ok := h.system(c, req.System)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, TemperatureResponse{Text: h.service.ConvertTemperatureText(req.Text, sys)})
}

// HandleAnalyzeNutrition 轉交營養分析服務
func (h *Handler) HandleAnalyzeNutrition(c *gin.Context) {
	var req NutritionRequest
	if !h.bind(c, &req) {
		return
	}

	rows := req.Rows
	if len(rows) == 0 && req.Text != "" {
		parsed, err := h.service.ParseLines(c.Request.Context(), req.Text)
		if err != nil {
			h.abort(c, err)
			return
		}
		rows = parsed
	}

	analysis, err := h.service.AnalyzeNutrition(c.Request.Context(), req.Title, rows)
	if err != nil {
		h.abort(c, err)
		return
	}

	common.LogInfo("營養分析請求完成",
		zap.String("request_id", requestID(c)),
		zap.Int("rows", len(rows)),
		zap.Bool("cached", analysis.Cached),
	)
	c.JSON(http.StatusOK, NutritionResponse{Analysis: analysis})
}
