package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type BotAPI struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewBotAPI(httpClient *http.Client, baseURL, token string) *BotAPI {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &BotAPI{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// RequestError carries the pieces Telegram reports on failure.
type RequestError struct {
	StatusCode  int
	ErrorCode   int
	Description string
	Body        string
}

func (e *RequestError) Error() string {
	desc := strings.TrimSpace(e.Description)
	if desc != "" {
		if e.StatusCode > 0 {
			return fmt.Sprintf("telegram http %d: %s", e.StatusCode, desc)
		}
		return "telegram: " + desc
	}
	body := strings.TrimSpace(e.Body)
	if e.StatusCode > 0 {
		if body != "" {
			return fmt.Sprintf("telegram http %d: %s", e.StatusCode, body)
		}
		return fmt.Sprintf("telegram http %d", e.StatusCode)
	}
	if body != "" {
		return "telegram: " + body
	}
	return "telegram request failed"
}

type getMeResponse struct {
	OK     bool `json:"ok"`
	Result User `json:"result"`
}

func (api *BotAPI) GetMe(ctx context.Context) (*User, error) {
	raw, status, err := api.get(ctx, "getMe")
	if err != nil {
		return nil, err
	}
	var out getMeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, apiError(status, raw)
	}
	return &out.Result, nil
}

type sendMessageRequest struct {
	ChatID           int64  `json:"chat_id"`
	Text             string `json:"text"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
}

type sendMessageResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// SendMessage posts a new message as a reply to replyToMessageID (0 for no
// reply) and returns the created message id.
func (api *BotAPI) SendMessage(ctx context.Context, chatID, replyToMessageID int64, text string) (int64, error) {
	raw, status, err := api.post(ctx, "sendMessage", sendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ReplyToMessageID: replyToMessageID,
	})
	if err != nil {
		return 0, err
	}
	var out sendMessageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, err
	}
	if !out.OK {
		return 0, apiError(status, raw)
	}
	return out.Result.MessageID, nil
}

type editMessageTextRequest struct {
	ChatID    int64  `json:"chat_id"`
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
}

// EditMessageText replaces the text of a previously sent message.
func (api *BotAPI) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	raw, status, err := api.post(ctx, "editMessageText", editMessageTextRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	if err != nil {
		return err
	}
	var out okResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if !out.OK {
		return apiError(status, raw)
	}
	return nil
}

type setWebhookRequest struct {
	URL string `json:"url"`
}

func (api *BotAPI) SetWebhook(ctx context.Context, url string) error {
	raw, status, err := api.post(ctx, "setWebhook", setWebhookRequest{URL: url})
	if err != nil {
		return err
	}
	var out okResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if !out.OK {
		return apiError(status, raw)
	}
	return nil
}

func (api *BotAPI) DeleteWebhook(ctx context.Context) error {
	raw, status, err := api.post(ctx, "deleteWebhook", struct{}{})
	if err != nil {
		return err
	}
	var out okResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if !out.OK {
		return apiError(status, raw)
	}
	return nil
}

type WebhookInfo struct {
	URL                  string `json:"url"`
	PendingUpdateCount   int    `json:"pending_update_count"`
	LastErrorDate        int64  `json:"last_error_date,omitempty"`
	LastErrorMessage     string `json:"last_error_message,omitempty"`
	MaxConnections       int    `json:"max_connections,omitempty"`
	IPAddress            string `json:"ip_address,omitempty"`
	HasCustomCertificate bool   `json:"has_custom_certificate,omitempty"`
}

type getWebhookInfoResponse struct {
	OK     bool        `json:"ok"`
	Result WebhookInfo `json:"result"`
}

func (api *BotAPI) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	raw, status, err := api.get(ctx, "getWebhookInfo")
	if err != nil {
		return nil, err
	}
	var out getWebhookInfoResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, apiError(status, raw)
	}
	return &out.Result, nil
}

type okResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

func apiError(status int, raw []byte) error {
	var out okResponse
	_ = json.Unmarshal(raw, &out)
	return &RequestError{
		StatusCode:  status,
		ErrorCode:   out.ErrorCode,
		Description: out.Description,
		Body:        strings.TrimSpace(string(raw)),
	}
}

func (api *BotAPI) get(ctx context.Context, method string) ([]byte, int, error) {
	url := fmt.Sprintf("%s/bot%s/%s", api.baseURL, api.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	return api.do(req)
}

func (api *BotAPI) post(ctx context.Context, method string, body any) ([]byte, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	url := fmt.Sprintf("%s/bot%s/%s", api.baseURL, api.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return api.do(req)
}

func (api *BotAPI) do(req *http.Request) ([]byte, int, error) {
	resp, err := api.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, resp.StatusCode, apiError(resp.StatusCode, raw)
	}
	return raw, resp.StatusCode, nil
}
