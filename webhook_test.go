package seoshop

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newWebhookTestClient(t *testing.T, mux *http.ServeMux) (*Client, *Session) {
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := NewClient(testCredentials, WithBaseURL(srv.URL), WithLogger(discardLogger))
	require.NoError(t, err)
	return c, c.NewSession("105504", testToken, "de")
}

func TestRegisterWebhookExisting(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/de/webhooks.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"webhooks":[{"id":3,"isActive":true,"itemGroup":"orders","itemAction":"created","address":"https://app.example.com/wh"}]}`))
	})
	c, sess := newWebhookTestClient(t, mux)

	id, err := c.RegisterWebhook(context.Background(), sess, &Webhook{
		ItemGroup:  "orders",
		ItemAction: "created",
		Address:    "https://app.example.com/wh",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestRegisterWebhookFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/de/webhooks.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"webhooks":[]}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"address is invalid"}}`))
	})
	c, sess := newWebhookTestClient(t, mux)

	_, err := c.RegisterWebhook(context.Background(), sess, &Webhook{ItemGroup: "orders", ItemAction: "updated", Address: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	assert.Equal(t, map[string]any{"message": "address is invalid"}, apiErr.Message)
}

func TestDeleteWebhook(t *testing.T) {
	var deleted bool
	mux := http.NewServeMux()
	mux.HandleFunc("/de/webhooks/7.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	c, sess := newWebhookTestClient(t, mux)

	require.NoError(t, c.DeleteWebhook(context.Background(), sess, 7))
	assert.True(t, deleted)
}

func TestGetWebhooks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/de/webhooks.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"webhooks":[{"id":1,"itemGroup":"orders","itemAction":"*"},{"id":2,"itemGroup":"products","itemAction":"deleted"}]}`))
	})
	c, sess := newWebhookTestClient(t, mux)

	whs, err := c.GetWebhooks(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, whs, 2)
	assert.Equal(t, "products", whs[1].ItemGroup)
}
