package stats

import (
	"errors"
	"fmt"
)

// UnavailableMessage 为展示层使用的固定提示，不携带底层原因。
const UnavailableMessage = "Unable to load LeetCode stats right now."

// Kind 为抓取失败的分类。
type Kind int

const (
	// NetworkFailure：DNS/超时/连接被拒等传输层错误。
	NetworkFailure Kind = iota + 1
	// InvalidResponse：响应不可解析、状态码异常或命中 not-found 哨兵。
	InvalidResponse
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case InvalidResponse:
		return "invalid response"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// 供 errors.Is 匹配的哨兵。
var (
	ErrNetworkFailure  = errors.New("network failure")
	ErrInvalidResponse = errors.New("invalid response")
)

// FetchError 为 Fetch 返回的带分类错误，两类均为本次调用的终态。
type FetchError struct {
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrNetworkFailure/ErrInvalidResponse) 按分类匹配。
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetworkFailure:
		return e.Kind == NetworkFailure
	case ErrInvalidResponse:
		return e.Kind == InvalidResponse
	}
	return false
}

// UserMessage 返回面向访客的固定文案。
func (e *FetchError) UserMessage() string { return UnavailableMessage }

func networkErr(format string, a ...any) error {
	return &FetchError{Kind: NetworkFailure, Err: fmt.Errorf(format, a...)}
}

func invalidErr(format string, a ...any) error {
	return &FetchError{Kind: InvalidResponse, Err: fmt.Errorf(format, a...)}
}

// KindOf 提取错误分类，非 FetchError 返回 0。
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
