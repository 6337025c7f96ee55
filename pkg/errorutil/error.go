package errorutil

import (
	"errors"
	"fmt"
)

// Kind 错误类别（用于调用方区分失败原因，而非解析日志文本）
type Kind string

const (
	// KindLoad 输入表加载失败（整次运行致命）
	KindLoad Kind = "LOAD_ERROR"
	// KindMissingColumn 所需特征列不存在（单步失败）
	KindMissingColumn Kind = "MISSING_COLUMN"
	// KindInsufficientData 数据量不足（预期内的"无结果"，非硬失败）
	KindInsufficientData Kind = "INSUFFICIENT_DATA"
	// KindModelFit 统计模型拟合失败（单步失败）
	KindModelFit Kind = "MODEL_FIT_ERROR"
	// KindStore 结果表写入失败（单步失败）
	KindStore Kind = "STORE_ERROR"
)

// Error 分析步骤错误
type Error struct {
	Kind    Kind   `json:"kind"`
	Step    string `json:"step,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// New 创建指定类别的错误
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// WithStep 标注错误发生的步骤
func (e *Error) WithStep(step string) *Error {
	e.Step = step
	return e
}

// KindOf 提取错误类别；非本包错误返回空串
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
