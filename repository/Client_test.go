package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eshopClient/localstore"
	"eshopClient/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, localstore.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	client, err := NewClient(server.URL, store)
	require.NoError(t, err)
	return client, store
}

func TestDoAttachesBearerAndRequestId(t *testing.T) {
	var gotAuth, gotRequestId string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestId = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{"success":true}`))
	})
	require.NoError(t, store.Set(localstore.KeyToken, "abc123"))

	var out models.Envelope
	require.NoError(t, client.do(context.Background(), http.MethodGet, "/ping", nil, nil, &out))
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.NotEmpty(t, gotRequestId)
}

func TestDoSkipsBearerWithoutToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	})
	var out models.Envelope
	require.NoError(t, client.do(context.Background(), http.MethodGet, "/ping", nil, nil, &out))
	assert.Empty(t, gotAuth)
}

func TestDoTokenReadPerRequest(t *testing.T) {
	var gotAuth string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	})
	require.NoError(t, store.Set(localstore.KeyToken, "first"))

	var out models.Envelope
	require.NoError(t, client.do(context.Background(), http.MethodGet, "/ping", nil, nil, &out))
	assert.Equal(t, "Bearer first", gotAuth)

	// logout between requests takes effect immediately
	require.NoError(t, store.Delete(localstore.KeyToken))
	require.NoError(t, client.do(context.Background(), http.MethodGet, "/ping", nil, nil, &out))
	assert.Empty(t, gotAuth)
}

func TestDoMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, models.ErrUnauthorized},
		{http.StatusForbidden, models.ErrUnauthorized},
		{http.StatusNotFound, models.ErrNotFound},
		{http.StatusNotAcceptable, models.ErrNotAllowed},
		{http.StatusBadRequest, models.ErrBadRequest},
		{http.StatusInternalServerError, models.ErrServerError},
	}
	for _, tc := range cases {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"success":false,"message":"что-то пошло не так"}`))
		})
		err := client.do(context.Background(), http.MethodGet, "/fail", nil, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, tc.want, tc.status)
		assert.Equal(t, "что-то пошло не так", models.ServerMessage(err, ""))
	}
}

func TestDoEnvelopeRejectsBusinessFailureOn200(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":false,"error":"Корзина пуста"}`))
	})
	var out models.Envelope
	err := client.doEnvelope(context.Background(), http.MethodGet, "/cart", nil, nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Equal(t, "Корзина пуста", models.ServerMessage(err, ""))
}

func TestDoTransportFailure(t *testing.T) {
	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	client, err := NewClient("http://127.0.0.1:1", store)
	require.NoError(t, err)

	doErr := client.do(context.Background(), http.MethodGet, "/ping", nil, nil, nil)
	assert.ErrorIs(t, doErr, models.ErrServerError)
}
