package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

// Заголовки соединения не пересылаются: fiber выставляет их сам.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Content-Length":    true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
}

// Proxy пересылает запросы в сервис разметки как есть: метод, тело,
// Content-Type (вместе с boundary multipart) и строку запроса.
type Proxy struct {
	target string
	client *http.Client
}

func New(target string, timeout time.Duration) *Proxy {
	return &Proxy{
		target: strings.TrimRight(target, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Handler отрезает prefix от пути и пересылает остаток в target.
func (p *Proxy) Handler(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), prefix)
		if path == "" {
			path = "/"
		}
		targetURL := p.target + path
		if query := string(c.Request().URI().QueryString()); query != "" {
			targetURL += "?" + query
		}
		return p.Forward(c, targetURL)
	}
}

// Forward проксирует запрос по переданному URL.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	log.Printf("[PROXY] %s %s -> %s (%d bytes, %s)", c.Method(), c.Path(), targetURL, len(c.Body()), c.Get("Content-Type"))

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	for _, key := range []string{"Content-Type", "Accept", "Authorization"} {
		if v := c.Get(key); v != "" {
			req.Header.Set(key, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

// Ping проверяет готовность сервиса разметки через его readiness probe.
func (p *Proxy) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target+"/health/ready", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream not ready: status %d", resp.StatusCode)
	}
	return nil
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if hopHeaders[key] {
			continue
		}
		for _, v := range values {
			c.Response().Header.Add(key, v)
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
