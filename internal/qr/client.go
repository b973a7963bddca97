package qr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.qrserver.com/v1/create-qr-code/"
const defaultSize = "200x200"

// Client consulta o serviço externo de renderização de QR code: recebe um
// texto e devolve a imagem pronta para exibição.
type Client struct {
	httpClient *http.Client
	baseURL    string
	size       string
}

// New cria o cliente. baseURL vazio usa o serviço padrão.
func New(baseURL string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultAPIBase
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    base,
		size:       defaultSize,
	}
}

// ImageURL monta a URL da imagem QR para o texto informado.
func (c *Client) ImageURL(text string) string {
	q := url.Values{}
	q.Set("size", c.size)
	q.Set("data", text)
	return c.baseURL + "?" + q.Encode()
}

// Fetch baixa a imagem QR do texto informado, devolvendo os bytes e o
// content type.
func (c *Client) Fetch(ctx context.Context, text string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(text), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("qr: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if len(body) == 0 {
		return nil, "", errors.New("qr: resposta vazia")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return body, contentType, nil
}
