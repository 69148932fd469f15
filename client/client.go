// Package client is the shared network dispatcher. Every module operation
// funnels through Client.Call, which encodes the request, applies the
// browser headers and credential cookies the platform checks, and unwraps
// the {code, message, data} envelope its endpoints respond with.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"

	"github.com/bilikit/bilikit/api"
	"github.com/bilikit/bilikit/credential"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	referer          = "https://www.bilibili.com"
)

// Cache is an optional lookaside store consulted by lookup helpers. The
// redis implementation lives with the CLI; a nil Cache disables caching.
type Cache interface {
	Get(key string) (string, error)
	Set(key, value string, expiration time.Duration) error
}

// Client dispatches requests against an injected endpoint table. All knobs
// are plain fields; the zero HTTP client limits match the upstream servers'
// tolerance for connection reuse.
type Client struct {
	HTTP      *fasthttp.Client
	Table     api.Table
	Cache     Cache
	UserAgent string
}

func New(table api.Table) *Client {
	return &Client{
		HTTP: &fasthttp.Client{
			ReadBufferSize:  16 * 1024,
			MaxConnsPerHost: 1024,
		},
		Table: table,
	}
}

// UseSocks5 routes all requests through a socks5 proxy.
func (c *Client) UseSocks5(proxy string) {
	c.HTTP.Dial = fasthttpproxy.FasthttpSocksDialer(proxy)
}

// Params carries the request payload. For POST endpoints exactly one of
// Form, JSON or Files applies: Files selects a multipart body with Form as
// its plain fields, JSON a JSON body, otherwise Form is urlencoded.
type Params struct {
	Query map[string]string
	Form  map[string]string
	JSON  any
	Files map[string][]byte
}

type envelope struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	TTL     int             `json:"ttl"`
	Data    json.RawMessage `json:"data"`
}

// Call performs the operation named by a dotted "module.group.name" key and
// returns the envelope's data field. A non-zero envelope code comes back as
// *Error; transport and HTTP-level failures come back wrapped.
func (c *Client) Call(key string, p Params, cred *credential.Credential) (json.RawMessage, error) {
	endpoint, ok := c.Table.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%s: endpoint not in table", key)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(endpoint.Method)
	req.SetRequestURI(endpoint.URL)
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Referer", referer)
	if cookie := cred.Cookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	for key, value := range p.Query {
		req.URI().QueryArgs().Add(key, value)
	}

	if endpoint.Method == fasthttp.MethodPost {
		if err := setPostBody(req, p, cred); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	if err := c.HTTP.Do(req, resp); err != nil {
		return nil, fmt.Errorf("%s: request: %w", key, err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", key, status)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", key, err)
	}
	if env.Code != 0 {
		return nil, &Error{Op: key, Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}

func setPostBody(req *fasthttp.Request, p Params, cred *credential.Credential) error {
	switch {
	case p.JSON != nil:
		body, err := json.Marshal(p.JSON)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	case p.Files != nil:
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for name, value := range withCSRF(p.Form, cred) {
			if err := writer.WriteField(name, value); err != nil {
				return fmt.Errorf("encode multipart: %w", err)
			}
		}
		for name, data := range p.Files {
			part, err := writer.CreateFormFile(name, name)
			if err != nil {
				return fmt.Errorf("encode multipart: %w", err)
			}
			if _, err := part.Write(data); err != nil {
				return fmt.Errorf("encode multipart: %w", err)
			}
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("encode multipart: %w", err)
		}
		req.Header.SetContentType(writer.FormDataContentType())
		req.SetBody(buf.Bytes())
	default:
		form := withCSRF(p.Form, cred)
		pairs := make([]string, 0, len(form))
		for name, value := range form {
			pairs = append(pairs, name+"="+url.QueryEscape(value))
		}
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBodyString(strings.Join(pairs, "&"))
	}
	return nil
}

// withCSRF copies the form and stamps the session's csrf token into it, the
// way the platform's own web client signs every mutating call.
func withCSRF(form map[string]string, cred *credential.Credential) map[string]string {
	out := make(map[string]string, len(form)+2)
	for name, value := range form {
		out[name] = value
	}
	if token := cred.CSRF(); token != "" {
		out["csrf"] = token
		out["csrf_token"] = token
	}
	return out
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}
