package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/co-developer342/fyp-wednesday/internal/payment"
)

func TestClientToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/payment/token" || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"clientToken":"tok-1"}`))
	}))
	defer srv.Close()

	gw, err := payment.NewGateway(srv.URL, srv.Client())
	require.NoError(t, err)

	token, err := gw.ClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestClientTokenErrors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer srv.Close()

		gw, err := payment.NewGateway(srv.URL, srv.Client())
		require.NoError(t, err)

		_, err = gw.ClientToken(context.Background())
		assert.Error(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		gw, err := payment.NewGateway(srv.URL, srv.Client())
		require.NoError(t, err)

		_, err = gw.ClientToken(context.Background())
		assert.Error(t, err)
	})
}

func TestRequestNonce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/payment/method" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var body struct {
			ClientToken string `json:"clientToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ClientToken != "tok-1" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"nonce":"n-1"}`))
	}))
	defer srv.Close()

	gw, err := payment.NewGateway(srv.URL, srv.Client())
	require.NoError(t, err)

	nonce, err := gw.Method("tok-1").RequestNonce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n-1", nonce)

	_, err = gw.Method("wrong").RequestNonce(context.Background())
	assert.Error(t, err)
}

func TestRequestNonceRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment method declined", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	gw, err := payment.NewGateway(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = gw.Method("tok-1").RequestNonce(context.Background())
	assert.Error(t, err)
}
