package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// HashStrings 計算多段字串的 SHA-256，段落之間以換行分隔
func HashStrings(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(hash[:])
}

// NewErrorResponse 由 CustomError 建立 API 錯誤響應，debug 模式附上原始錯誤
func NewErrorResponse(err *CustomError, debug bool) ErrorResponse {
	resp := ErrorResponse{
		Code:    err.Code,
		Message: err.Message,
	}
	if debug && err.Err != nil {
		resp.Details = err.Err.Error()
	}
	return resp
}
