package ingredient

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ingredientCore "recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
	"recipe-normalizer/internal/pkg/common"
)

// toCustomError 將引擎錯誤對應到 API 錯誤代碼
func toCustomError(err error) *common.CustomError {
	switch {
	case errors.Is(err, quantity.ErrNotANumber):
		return common.ErrNotANumber.WithErr(err)
	case errors.Is(err, unit.ErrDimensionMismatch):
		return common.ErrDimensionMismatch.WithErr(err)
	case errors.Is(err, unit.ErrNotConvertible):
		return common.ErrNotConvertible.WithErr(err)
	case errors.Is(err, ingredientCore.ErrNoQuantityCue):
		return common.ErrNoQuantityCue.WithErr(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.WithErr(err)
	default:
		return common.AsCustomError(err)
	}
}

// abort 寫入錯誤響應並中止
func (h *Handler) abort(c *gin.Context, err error) {
	ce := toCustomError(err)
	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestID(c)),
		zap.Error(err),
	}
	if ce.Status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求被拒絕", fields...)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, common.NewErrorResponse(ce, h.debug))
}
