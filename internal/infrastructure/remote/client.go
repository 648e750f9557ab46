package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agrogb/agroledger/internal/application/sync"
)

var _ sync.RemoteStore = (*Client)(nil)

// Client habla con el backend compartido vía su API REST estilo PostgREST:
// upsert por POST con resolución de conflicto por uuid, y select incremental
// filtrado por last_updated. La API key viaja como apikey y como Bearer.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient construye el cliente. baseURL sin slash final, p.ej.
// https://xyz.supabase.co — las rutas /rest/v1/{tabla} se agregan acá.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upsert sube una fila resolviendo el conflicto por uuid (última escritura
// gana en el remoto).
func (c *Client) Upsert(ctx context.Context, table string, row sync.Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("remote: serializar fila de %s: %w", table, err)
	}
	endpoint := fmt.Sprintf("%s/rest/v1/%s?on_conflict=uuid", c.baseURL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remote: request de upsert: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: upsert %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError("upsert", table, resp)
	}
	return nil
}

// Select baja las filas con last_updated estrictamente posterior al
// watermark, en orden ascendente (el orden importa: si el pull se corta a
// mitad, lo ya aplicado avanza el watermark local sin dejar huecos).
func (c *Client) Select(ctx context.Context, table, watermark string) ([]sync.Row, error) {
	endpoint := fmt.Sprintf(
		"%s/rest/v1/%s?select=*&last_updated=gt.%s&order=last_updated.asc",
		c.baseURL, table, url.QueryEscape(watermark),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: request de select: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: select %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("select", table, resp)
	}

	var rows []sync.Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("remote: decodificar filas de %s: %w", table, err)
	}
	return rows, nil
}

// Ping verifica accesibilidad del remoto con un request mínimo.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return fmt.Errorf("remote: request de ping: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("remote: ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) statusError(op, table string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("remote: %s %s: status %d: %s", op, table, resp.StatusCode, strings.TrimSpace(string(detail)))
}
