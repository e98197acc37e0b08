package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind - класс ошибки транспорта
type ErrorKind int

const (
	// KindNetwork - ответ от сервера не получен
	KindNetwork ErrorKind = iota + 1
	// KindTimeout - истек таймаут запроса
	KindTimeout
	// KindStatus - сервер ответил статусом вне 2xx
	KindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error - единая ошибка транспорта
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Method     string
	Path       string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	case KindTimeout:
		return fmt.Sprintf("request timed out: %s", e.Message)
	default:
		return fmt.Sprintf("network error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError достает *Error из цепочки
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// StatusCode - HTTP статус ошибки или 0, если ответа не было
func StatusCode(err error) int {
	if te, ok := AsError(err); ok {
		return te.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsTimeout(err error) bool {
	te, ok := AsError(err)
	return ok && te.Kind == KindTimeout
}

// IsNetwork - ответа нет, таймаут тоже считается сетевой ошибкой
func IsNetwork(err error) bool {
	te, ok := AsError(err)
	return ok && (te.Kind == KindNetwork || te.Kind == KindTimeout)
}

// detailMessage вытаскивает detail из тела ошибки бэкенда
func detailMessage(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
		var text string
		if json.Unmarshal(payload.Detail, &text) == nil && text != "" {
			return text
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &items) == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
