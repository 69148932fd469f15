package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/bilikit/bilikit/api"
	"github.com/bilikit/bilikit/client"
	"github.com/bilikit/bilikit/credential"
	"github.com/bilikit/bilikit/internal/config"
	"github.com/bilikit/bilikit/internal/database"
	"github.com/bilikit/bilikit/internal/database/cache"
)

func initializeServices() error {
	if err := database.Open(config.DatabaseFile); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.CreateTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

func buildClient() (*client.Client, *credential.Credential) {
	c := client.New(api.Default())

	if config.Socks5Proxy != "" {
		c.UseSocks5(config.Socks5Proxy)
	}

	if config.RedisAddr != "" {
		if err := cache.RedisClient(config.RedisAddr, "", 0); err != nil {
			slog.Warn("Redis cache is unavailable, lookups go uncached",
				"error", err.Error())
		} else {
			c.Cache = cache.Store{}
		}
	}

	cred := &credential.Credential{
		Sessdata:    config.Sessdata,
		BiliJct:     config.BiliJct,
		Buvid3:      config.Buvid3,
		DedeUserID:  config.DedeUserID,
		AcTimeValue: config.AcTimeValue,
	}
	return c, cred
}

type colorHandler struct {
	handler slog.Handler
	out     io.Writer
	colors  map[slog.Level]string
	opts    *slog.HandlerOptions
}

func newColorHandler(out io.Writer, opts *slog.HandlerOptions) *colorHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &colorHandler{
		handler: slog.NewTextHandler(out, opts),
		out:     out,
		opts:    opts,
		colors: map[slog.Level]string{
			slog.LevelError: "\033[0;31m", // red
			slog.LevelWarn:  "\033[0;33m", // yellow
			slog.LevelInfo:  "\033[0;36m", // cyan
			slog.LevelDebug: "\033[0;32m", // green
		},
	}
}

func (h *colorHandler) Handle(ctx context.Context, r slog.Record) error {
	timestamp := r.Time.Format("[01/02 15:04]")
	colorCode, ok := h.colors[r.Level]
	if !ok {
		colorCode = "\033[0m"
	}

	colorReset := "\033[0m"
	colorGray := "\033[90m"
	colorWhiteBold := "\033[1;37m"

	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "" {
			attrs[a.Key] = a.Value.Any()
		}
		return true
	})

	var jsonAttrs string
	if len(attrs) > 0 {
		if jsonBytes, err := json.Marshal(attrs); err == nil {
			jsonAttrs = " " + string(jsonBytes)
		}
	}

	msg := fmt.Sprintf("%s%s %s%s%s: %s%s%s\n",
		colorGray,
		timestamp,
		colorCode,
		r.Level.String(),
		colorWhiteBold,
		r.Message,
		colorReset,
		jsonAttrs,
	)

	_, err := h.out.Write([]byte(msg))
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{
		handler: h.handler.WithAttrs(attrs),
		out:     h.out,
		opts:    h.opts,
		colors:  h.colors,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	return &colorHandler{
		handler: h.handler.WithGroup(name),
		out:     h.out,
		opts:    h.opts,
		colors:  h.colors,
	}
}

func (h *colorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
