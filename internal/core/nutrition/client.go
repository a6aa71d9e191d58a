// Package nutrition 呼叫外部營養分析服務。輸入為已解析食材的可讀字串，例如 "1.5 cup onion, diced"。
package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

// Analyzer 營養分析介面
type Analyzer interface {
	Analyze(ctx context.Context, title string, lines []string) (*Analysis, error)
}

// Nutrient 單一營養素
type Nutrient struct {
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Analysis 營養分析結果
type Analysis struct {
	Calories     float64             `json:"calories"`
	TotalWeight  float64             `json:"totalWeight"`
	DietLabels   []string            `json:"dietLabels,omitempty"`
	HealthLabels []string            `json:"healthLabels,omitempty"`
	Nutrients    map[string]Nutrient `json:"totalNutrients,omitempty"`
	Cached       bool                `json:"cached"`
}

// Client 營養分析服務 HTTP 客戶端
type Client struct {
	config *config.NutritionConfig
	client *resty.Client
}

// NewClient 創建營養分析客戶端
func NewClient(cfg *config.NutritionConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", common.ServiceName).
		SetQueryParam("app_id", cfg.AppID).
		SetQueryParam("app_key", cfg.AppKey)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Analyze 送出食材字串並取得營養分析
func (c *Client) Analyze(ctx context.Context, title string, lines []string) (*Analysis, error) {
	if !c.config.Enabled {
		return nil, common.ErrNutritionDisabled
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no ingredient lines to analyze")
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"title": title,
			"ingr":  lines,
		}).
		Post("")
	if err != nil {
		err = fmt.Errorf("failed to send request to nutrition service: %w", err)
		common.LogNutritionCall(len(lines), time.Since(start), err)
		return nil, common.ErrNutritionService.WithErr(err)
	}

	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("nutrition service returned %d: %s", resp.StatusCode(), resp.String())
		common.LogNutritionCall(len(lines), time.Since(start), err)
		return nil, common.ErrNutritionService.WithErr(err)
	}

	var result Analysis
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, common.ErrNutritionService.WithErr(fmt.Errorf("failed to parse nutrition response: %w", err))
	}

	common.LogNutritionCall(len(lines), time.Since(start), nil)
	return &result, nil
}
