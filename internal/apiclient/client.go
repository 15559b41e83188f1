// Package apiclient is the single egress to the storefront REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const sessionExpiredMessage = "Session expired, please log in again"

// TokenSource supplies the bearer token of the calling session and forgets it
// when the backend rejects it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	tokens     TokenSource
}

func New(cfg config.Backend, validate *validator.Validate) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	if validate == nil {
		validate = utils.NewValidator()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		validate: validate,
	}
}

// WithTokens returns a copy of the client that authenticates as one session.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens

	return &clone
}

type errorBody struct {
	Message string `json:"message"`
}

type call struct {
	method   string
	path     string
	query    url.Values
	body     any
	out      any
	fallback string
}

func (c *Client) do(ctx context.Context, in call) error {
	logger := slog.Default().With(slog.String("upstream_method", in.method), slog.String("upstream_path", in.path))

	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	var body io.Reader

	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return appErrors.InternalError(in.fallback).WithError(fmt.Errorf("marshal request: %w", err))
		}

		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return appErrors.InternalError(in.fallback).WithError(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")

	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			logger.Warn("Could not load session token, calling anonymously", slog.String("error", err.Error()))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(in.method, "network_error", time.Since(start))
		logger.Warn("Backend unreachable", slog.String("error", err.Error()))

		return appErrors.NetworkError(in.fallback).WithError(err)
	}
	defer resp.Body.Close()

	metrics.ObserveUpstream(in.method, strconv.Itoa(resp.StatusCode), time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.NetworkError(in.fallback).WithError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			if err := c.tokens.ClearToken(ctx); err != nil {
				logger.Error("Failed to clear rejected token", slog.String("error", err.Error()))
			}
		}

		logger.Info("Backend rejected session token")

		return appErrors.UnauthorizedError(messageOr(raw, sessionExpiredMessage))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Warn("Backend returned an error", slog.Int("status", resp.StatusCode))

		return appErrors.APIError(resp.StatusCode, messageOr(raw, in.fallback))
	}

	if in.out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, in.out); err != nil {
		logger.Error("Backend response is not valid JSON", slog.String("error", err.Error()))

		return appErrors.MalformedResponseError(in.fallback).WithError(err)
	}

	if err := c.check(in.out); err != nil {
		logger.Error("Backend response failed schema checks", slog.String("error", err.Error()))

		return appErrors.MalformedResponseError(in.fallback).WithError(err)
	}

	return nil
}

// check validates a decoded payload: structs field by field, slices element by element.
func (c *Client) check(out any) error {
	if _, deferred := out.(*json.RawMessage); deferred {
		return nil
	}

	value := reflect.Indirect(reflect.ValueOf(out))

	switch value.Kind() {
	case reflect.Struct:
		return c.validate.Struct(value.Interface())
	case reflect.Slice:
		for idx := range value.Len() {
			if err := c.check(value.Index(idx).Addr().Interface()); err != nil {
				return fmt.Errorf("element %d: %w", idx, err)
			}
		}

		return nil
	case reflect.Pointer:
		if value.IsNil() {
			return errors.New("empty response body")
		}

		return c.check(value.Interface())
	default:
		return nil
	}
}

func messageOr(raw []byte, fallback string) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}

	return fallback
}
