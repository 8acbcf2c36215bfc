package seoshop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"io"
	"net/http"
)

const XSignatureHeader = "X-Signature"

type WebhookRequest struct {
	Webhook *Webhook `json:"webhook"`
}

type WebhookResponse struct {
	Webhook *Webhook `json:"webhook"`
}

type Webhook struct {
	ID         int    `json:"id,omitempty"`
	IsActive   bool   `json:"isActive"`
	ItemGroup  string `json:"itemGroup"`
	ItemAction string `json:"itemAction"`
	Language   string `json:"language,omitempty"`
	Format     string `json:"format,omitempty"`
	Address    string `json:"address"`
}

type WebhooksResponse struct {
	Webhooks []*Webhook `json:"webhooks"`
}

func (c *Client) GetWebhooks(ctx context.Context, sess *Session) ([]*Webhook, error) {
	resp, err := c.Get(ctx, sess, "/webhooks.json")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve webhooks: %w", err)
	}
	var whs WebhooksResponse
	if err = resp.Decode(&whs); err != nil {
		return nil, err
	}
	return whs.Webhooks, nil
}

// RegisterWebhook creates wh unless a webhook for the same item group, action
// and address exists already. It returns the id of the webhook in either case.
func (c *Client) RegisterWebhook(ctx context.Context, sess *Session, wh *Webhook) (id int, err error) {
	whs, err := c.GetWebhooks(ctx, sess)
	if err != nil {
		return 0, err
	}
	for i := range whs {
		if whs[i].ItemGroup == wh.ItemGroup && whs[i].ItemAction == wh.ItemAction && whs[i].Address == wh.Address {
			return whs[i].ID, nil
		}
	}
	if wh.Format == "" {
		wh.Format = "json"
	}
	if wh.Language == "" {
		wh.Language = sess.Language
	}
	resp, err := c.Post(ctx, sess, "/webhooks.json", WebhookRequest{Webhook: wh})
	if err != nil {
		return 0, fmt.Errorf("failed to register webhook: %w", err)
	}
	var whResp WebhookResponse
	if err = resp.Decode(&whResp); err != nil {
		return 0, err
	}
	if whResp.Webhook == nil {
		return 0, errors.New("failed to register webhook: empty response")
	}
	return whResp.Webhook.ID, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, sess *Session, id int) error {
	if _, err := c.Delete(ctx, sess, fmt.Sprintf("/webhooks/%d.json", id)); err != nil {
		return fmt.Errorf("failed to delete webhook %d: %w", id, err)
	}
	return nil
}

// VerifyWebhook rejects webhook deliveries whose signature header does not
// match the body. The body is left readable for the next handler.
func (a *App) VerifyWebhook(c *gin.Context) {
	bs, err := io.ReadAll(c.Request.Body)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(bs))
	if !a.VerifyWebhookPayload(bs, c.GetHeader(XSignatureHeader)) {
		_ = c.AbortWithError(http.StatusUnauthorized, errors.New("invalid webhook signature"))
		return
	}
}
