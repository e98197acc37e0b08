package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialweb/config"
	"socialweb/logger"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client - обертка над net/http с базовым адресом и цепочками перехватчиков
type Client struct {
	baseURL       string
	timeout       time.Duration
	uploadTimeout time.Duration
	http          *http.Client
	log           *zap.Logger

	mu     sync.RWMutex
	onReq  []RequestInterceptor
	onResp []ResponseInterceptor
}

// Request описывает один вызов API. Заполняется не больше одного из JSON, Form, Multipart
type Request struct {
	Method    string
	Path      string
	Operation string
	Query     url.Values
	JSON      any
	Form      url.Values
	Multipart *Multipart
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode разбирает JSON тело ответа
func (r *Response) Decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultTimeout
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = config.DefaultUploadTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		timeout:       opts.Timeout,
		uploadTimeout: opts.UploadTimeout,
		http:          opts.HTTPClient,
		log:           logger.OrNop(opts.Logger),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) UseRequest(fn RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReq = append(c.onReq, fn)
}

func (c *Client) UseResponse(fn ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResp = append(c.onResp, fn)
}

// Do выполняет запрос, при успехе раскладывает тело ответа в out
func (c *Client) Do(ctx context.Context, r *Request, out any) (*Response, error) {
	body, contentType, timeout, err := c.encodeBody(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.mu.RLock()
	onReq := append([]RequestInterceptor(nil), c.onReq...)
	onResp := append([]ResponseInterceptor(nil), c.onResp...)
	c.mu.RUnlock()

	for _, fn := range onReq {
		if err = fn(req); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}
	c.logRequest(r, req)

	start := time.Now()
	resp, sendErr := c.send(req, r, timeout)
	var status int
	var kind ErrorKind
	if resp != nil {
		status = resp.StatusCode
	}
	if sendErr != nil {
		kind = sendErr.Kind
		c.logFailure(sendErr)
	}
	recordRequest(r.Method, r.operation(), status, kind, time.Since(start))

	for _, fn := range onResp {
		fn(resp, sendErr)
	}
	if sendErr != nil {
		return resp, sendErr
	}
	if err = resp.Decode(out); err != nil {
		return resp, err
	}
	return resp, nil
}

func (c *Client) send(req *http.Request, r *Request, timeout time.Duration) (*Response, *Error) {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(err, r, timeout)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classify(err, r, timeout)
	}
	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, &Error{
			Kind:       KindStatus,
			StatusCode: httpResp.StatusCode,
			Message:    detailMessage(httpResp.StatusCode, data),
			Method:     r.Method,
			Path:       r.Path,
		}
	}
	return resp, nil
}

func classify(err error, r *Request, timeout time.Duration) *Error {
	te := &Error{Kind: KindNetwork, Method: r.Method, Path: r.Path, Err: err, Message: err.Error()}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		te.Kind = KindTimeout
		te.Message = fmt.Sprintf("no response within %s", timeout)
	}
	return te
}

func (c *Client) encodeBody(r *Request) (io.Reader, string, time.Duration, error) {
	switch {
	case r.Multipart != nil:
		buf, contentType, err := r.Multipart.encode()
		if err != nil {
			return nil, "", 0, err
		}
		return buf, contentType, c.uploadTimeout, nil
	case r.Form != nil:
		return strings.NewReader(r.Form.Encode()), contentTypeForm, c.timeout, nil
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		return bytes.NewReader(data), contentTypeJSON, c.timeout, nil
	default:
		return nil, contentTypeJSON, c.timeout, nil
	}
}

func (r *Request) operation() string {
	if r.Operation != "" {
		return r.Operation
	}
	return r.Path
}

func (c *Client) logRequest(r *Request, req *http.Request) {
	auth := ""
	if req.Header.Get("Authorization") != "" {
		auth = "**TOKEN**"
	}
	payload := "json"
	switch {
	case r.Multipart != nil:
		payload = "multipart"
	case r.Form != nil:
		payload = "form"
	case r.JSON == nil:
		payload = "none"
	}
	c.log.Debug("api request",
		zap.String("method", r.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
		zap.String("authorization", auth),
		zap.String("payload", payload),
	)
}

func (c *Client) logFailure(e *Error) {
	fields := []zap.Field{
		zap.String("method", e.Method),
		zap.String("path", e.Path),
		zap.String("kind", e.Kind.String()),
		zap.Int("status", e.StatusCode),
		zap.String("message", e.Message),
	}
	switch {
	case e.Kind == KindNetwork:
		c.log.Error("network error: unable to reach the API server", fields...)
	case e.Kind == KindTimeout:
		c.log.Error("api request timed out", fields...)
	case e.StatusCode == http.StatusUnauthorized:
		c.log.Warn("unauthorized, session will be cleared", fields...)
	case e.StatusCode == http.StatusForbidden:
		c.log.Error("access forbidden", fields...)
	case e.StatusCode == http.StatusNotFound:
		c.log.Error("resource not found", fields...)
	case e.StatusCode >= http.StatusInternalServerError:
		c.log.Error("internal server error", fields...)
	default:
		c.log.Error("api error", fields...)
	}
}

func (c *Client) Get(ctx context.Context, op, path string, query url.Values, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Operation: op, Query: query}, out)
	return err
}

func (c *Client) Post(ctx context.Context, op, path string, body, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Operation: op, JSON: body}, out)
	return err
}

func (c *Client) Put(ctx context.Context, op, path string, body, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Operation: op, JSON: body}, out)
	return err
}

func (c *Client) Delete(ctx context.Context, op, path string) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Operation: op}, nil)
	return err
}

func (c *Client) PostForm(ctx context.Context, op, path string, form url.Values, out any) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Operation: op, Form: form}, out)
	return err
}

// Upload отправляет multipart с увеличенным таймаутом
func (c *Client) Upload(ctx context.Context, op, method, path string, body *Multipart, out any) error {
	_, err := c.Do(ctx, &Request{Method: method, Path: path, Operation: op, Multipart: body}, out)
	return err
}

// CheckConnection проверяет доступность бэкенда запросом GET /
func (c *Client) CheckConnection(ctx context.Context) error {
	c.log.Info("testing API connection", zap.String("base_url", c.baseURL))
	_, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: "/", Operation: "ping"}, nil)
	if err == nil {
		c.log.Info("API connection successful")
		return nil
	}
	if IsNetwork(err) {
		c.log.Error("API connection test failed",
			zap.String("base_url", c.baseURL),
			zap.Strings("possible_causes", []string{
				"backend server is not running",
				"CORS is not configured on the backend",
				"backend URL is incorrect",
				"network or firewall is blocking the connection",
			}),
			zap.Error(err),
		)
		return err
	}
	// Любой HTTP ответ означает, что сервер доступен
	c.log.Info("API reachable", zap.Int("status", StatusCode(err)))
	return nil
}
