package podcasttts

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Generate.
var (
	// ErrMissingCredentials means the client has no app ID or access key.
	ErrMissingCredentials = errors.New("podcasttts: missing app id or access key")

	// ErrRetryExhausted means the retry budget ran out before the run
	// completed. It wraps the last attempt's error.
	ErrRetryExhausted = errors.New("podcasttts: retry budget exhausted")

	// ErrNoAudio means the run finished without committing any audio.
	ErrNoAudio = errors.New("podcasttts: run finished with no audio")
)

// Error 播客合成 API 错误
//
// 服务端错误帧与 ConnectionFailed / SessionFailed 事件均转换为 *Error。
// 此类错误代表请求或账号问题，重试无法恢复。
type Error struct {
	// Code 业务错误码
	Code int `json:"code"`

	// Message 错误消息
	Message string `json:"message"`

	// TaskID 任务 ID
	TaskID string `json:"task_id,omitempty"`

	// RoundID 出错时所在轮次（无轮次上下文时为 -1）
	RoundID int `json:"-"`

	// Attempt 出错时的尝试序号（从 1 开始）
	Attempt int `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("podcasttts: %s (code=%d, task_id=%s, round=%d, attempt=%d)",
		e.Message, e.Code, e.TaskID, e.RoundID, e.Attempt)
}

// IsAuthError 是否为认证错误
func (e *Error) IsAuthError() bool {
	return e.Code == CodeAuthError || e.Code == 45000001
}

// IsInvalidParam 是否为参数错误
func (e *Error) IsInvalidParam() bool {
	return e.Code == CodeParamError
}

// IsQuotaExceeded 是否为配额超限
func (e *Error) IsQuotaExceeded() bool {
	return e.Code == CodeQuotaExceed
}

// AsError 尝试将 error 转换为 *Error
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// API 响应状态码
const (
	CodeSuccess     = 3000 // 成功
	CodeParamError  = 3001 // 参数错误
	CodeAuthError   = 3002 // 认证失败
	CodeRateLimit   = 3003 // 频率限制
	CodeQuotaExceed = 3004 // 余额不足
	CodeServerError = 3005 // 服务内部错误
)

// roundError 单轮合成失败，可通过断点续传恢复
type roundError struct {
	roundID int
	msg     string
}

func (e *roundError) Error() string {
	return fmt.Sprintf("round %d failed: %s", e.roundID, e.msg)
}

// transportError 传输层故障，可重试
type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *transportError) Unwrap() error {
	return e.err
}
