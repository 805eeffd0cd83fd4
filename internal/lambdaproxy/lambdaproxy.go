// Package lambdaproxy serves API Gateway proxy events through an http.Handler.
package lambdaproxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/exstem-grader/internal/identity"
	"github.com/stemsi/exstem-grader/internal/response"
)

// Adapter turns proxy events into requests for handler.
type Adapter struct {
	handler http.Handler
}

func New(handler http.Handler) *Adapter {
	return &Adapter{handler: handler}
}

// Proxy is the lambda.Start entry point.
func (a *Adapter) Proxy(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := NewRequest(ctx, event)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	w := newResponseWriter()
	a.handler.ServeHTTP(w, req)
	return w.proxyResponse(), nil
}

// NewRequest converts event into an *http.Request. Authorizer claims become
// verified identity claims on the request context.
func NewRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	method := event.HTTPMethod
	if method == "" {
		method = http.MethodPost
	}
	path := event.Path
	if path == "" {
		path = "/"
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 event body: %w", err)
		}
		body = decoded
	}

	u := &url.URL{Path: path, RawQuery: queryString(event).Encode()}
	req, err := http.NewRequestWithContext(ctx, method, u.RequestURI(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	for k, vs := range event.MultiValueHeaders {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}
	if ip := event.RequestContext.Identity.SourceIP; ip != "" {
		req.RemoteAddr = ip + ":0"
	}

	reqCtx := response.WithGatewayRequestID(req.Context(), event.RequestContext.RequestID)
	if claims := authorizerClaims(event.RequestContext.Authorizer); claims != nil {
		reqCtx = identity.WithClaims(reqCtx, claims)
	}
	req = req.WithContext(reqCtx)
	return req, nil
}

func queryString(event events.APIGatewayProxyRequest) url.Values {
	q := url.Values{}
	for k, v := range event.QueryStringParameters {
		q.Set(k, v)
	}
	for k, vs := range event.MultiValueQueryStringParameters {
		q[k] = append([]string(nil), vs...)
	}
	return q
}

// authorizerClaims returns requestContext.authorizer.claims, or nil.
func authorizerClaims(authorizer map[string]any) jwt.MapClaims {
	if authorizer == nil {
		return nil
	}
	claims, ok := authorizer["claims"].(map[string]any)
	if !ok || len(claims) == 0 {
		return nil
	}
	return jwt.MapClaims(claims)
}

// ─── Response ───────────────────────────────────────────────────────────────

type responseWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}}
}

func (w *responseWriter) Header() http.Header { return w.header }

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *responseWriter) proxyResponse() events.APIGatewayProxyResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           make(map[string]string, len(w.header)),
		MultiValueHeaders: make(map[string][]string, len(w.header)),
	}
	for k, vs := range w.header {
		resp.Headers[k] = strings.Join(vs, ",")
		resp.MultiValueHeaders[k] = vs
	}

	body := w.body.Bytes()
	if utf8.Valid(body) {
		resp.Body = string(body)
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(body)
		resp.IsBase64Encoded = true
	}
	return resp
}
