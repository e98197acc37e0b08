package transport

import (
	"net/http"
)

// TokenSource отдает текущий bearer-токен, пустая строка - токена нет
type TokenSource interface {
	Token() string
}

// RequestInterceptor вызывается перед отправкой каждого запроса
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor вызывается после каждого завершенного запроса.
// err == nil для успешного ответа, resp == nil если ответа не было
type ResponseInterceptor func(resp *Response, err *Error)

// BearerToken добавляет Authorization только при непустом токене
func BearerToken(src TokenSource) RequestInterceptor {
	return func(req *http.Request) error {
		if token := src.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// OnUnauthorized вызывает handler один раз на каждый ответ 401
func OnUnauthorized(handler func()) ResponseInterceptor {
	return func(_ *Response, err *Error) {
		if err != nil && err.Kind == KindStatus && err.StatusCode == http.StatusUnauthorized {
			handler()
		}
	}
}
