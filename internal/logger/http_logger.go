package logger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxBodyLogged limits what we read. 1 << 20 = 1 MiB.
const MaxBodyLogged = 1 << 20

var allowedHeaders = map[string]bool{
	"content-type":   true,
	"user-agent":     true,
	"content-length": true,
	"x-trace-id":     true,
	"traceparent":    true,
	"authorization":  true,
	"set-cookie":     true,
}

func HeaderAttrs(hdr http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(hdr))
	for name, values := range hdr {
		lower := strings.ToLower(name)
		if !allowedHeaders[lower] {
			continue
		}
		joined := strings.Join(values, ", ")
		if strings.Contains(lower, "authorization") || lower == "set-cookie" {
			joined = "***"
		}
		attrs = append(attrs, slog.String("http.header."+lower, joined))
	}
	return attrs
}

// QueryAttrs flattens url.Values into slog.Attrs with "http.query." prefix.
func QueryAttrs(q url.Values) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(q))
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		joined := strings.Join(values, ",")
		attrs = append(attrs, slog.String("http.query."+key, joined))
	}
	return attrs
}

// BodyAttrs inspects r.Body, produces slog.Attrs, and puts a *copy* back.
func BodyAttrs(r *http.Request) ([]slog.Attr, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyLogged))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewBuffer(body)) // hand it downstream intact

	if len(body) == 0 {
		return nil, nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		return jsonAttrs(body)
	case "application/x-www-form-urlencoded":
		return formAttrs(body)
	default:
		return binaryAttrs(body), nil
	}
}

// LogHTTPRequest assembles the attrs logged for an incoming request.
func LogHTTPRequest(ctx context.Context, r *http.Request, tag string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tag", tag),
		slog.String("http.method", r.Method),
		slog.String("http.path", r.URL.Path),
		slog.String("http.remote", r.RemoteAddr),
	}
	attrs = append(attrs, QueryAttrs(r.URL.Query())...)
	attrs = append(attrs, HeaderAttrs(r.Header)...)
	if bodyAttrs, err := BodyAttrs(r); err == nil {
		attrs = append(attrs, bodyAttrs...)
	}
	return attrs
}

// LogHTTPResponse assembles the attrs logged for an outgoing response.
func LogHTTPResponse(ctx context.Context, r *http.Request, hdr http.Header, status int, body *bytes.Buffer, durationMs int64, tag string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tag", tag),
		slog.String("http.method", r.Method),
		slog.String("http.path", r.URL.Path),
		slog.Int("http.status", status),
		slog.Int64("http.duration_ms", durationMs),
	}
	attrs = append(attrs, HeaderAttrs(hdr)...)
	if body != nil && body.Len() > 0 {
		ct, _, _ := mime.ParseMediaType(hdr.Get("Content-Type"))
		switch ct {
		case "application/json":
			if jsonBody, err := jsonAttrs(body.Bytes()); err == nil {
				attrs = append(attrs, jsonBody...)
			}
		default:
			attrs = append(attrs, slog.String("http.body.size", strconv.Itoa(body.Len())))
		}
	}
	return attrs
}

// ---------- Helpers ------------------------------------------------------

func jsonAttrs(body []byte) ([]slog.Attr, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not an object (could be an array); log it raw.
		return []slog.Attr{slog.String("http.body", string(body))}, nil
	}
	attrs := make([]slog.Attr, 0, len(payload))
	for k, v := range payload {
		attrs = append(attrs, slog.Any("http.body."+k, v))
	}
	return attrs, nil
}

func formAttrs(body []byte) ([]slog.Attr, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	attrs := make([]slog.Attr, 0, len(values))
	for k, v := range values {
		attrs = append(attrs, slog.String("http.body."+k, strings.Join(v, ",")))
	}
	return attrs, nil
}

func binaryAttrs(body []byte) []slog.Attr {
	const preview = 64
	n := len(body)
	if n > preview {
		n = preview
	}
	return []slog.Attr{
		slog.Int("http.body.size", len(body)),
		slog.String("http.body.preview", base64.StdEncoding.EncodeToString(body[:n])),
	}
}
