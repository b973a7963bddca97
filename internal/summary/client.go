package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultAPIBase = "https://generativelanguage.googleapis.com/v1beta"
const defaultModel = "gemini-2.5-flash"
const defaultTimeout = 15 * time.Second

const promptPrefix = "Summarize these territory observations into a concise note for the next publisher: "

// Mensagens fixas de degradação: falhas nunca propagam como erro para quem
// pediu o resumo.
const (
	FallbackEmpty = "Could not generate summary."
	FallbackError = "Error generating summary."
)

// Client encapsula chamadas ao serviço externo de resumo de texto.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// Config descreve credenciais e ajustes do cliente.
type Config struct {
	APIKey  string
	APIBase string
	Model   string
	Timeout time.Duration
}

// New cria o cliente com timeout limitado. A chave pode ficar vazia; nesse
// caso toda chamada degrada para a mensagem de erro fixa.
func New(cfg Config) *Client {
	apiBase := strings.TrimSpace(cfg.APIBase)
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(apiBase, "/"),
		model:      model,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize envia as observações e devolve o resumo, ou uma das mensagens
// fixas de degradação. Sem retry: uma única requisição com espera limitada.
func (c *Client) Summarize(ctx context.Context, observations string) string {
	if c.apiKey == "" {
		return FallbackError
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: promptPrefix + observations}}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return FallbackError
	}

	url := c.baseURL + "/models/" + c.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return FallbackError
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("resumo: chamada externa falhou")
		return FallbackError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("resumo: resposta inesperada")
		return FallbackError
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return FallbackError
	}

	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			if text := strings.TrimSpace(p.Text); text != "" {
				return text
			}
		}
	}

	return FallbackEmpty
}
