package nook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCCHash_Success(t *testing.T) {
	var form map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())

		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}

		writeXML(w, ccHashXML)
	}))
	defer srv.Close()

	hash, err := newTestClient(t, srv).CCHash(context.Background(), authedSession(t))
	require.NoError(t, err)
	assert.Equal(t, "c2VjcmV0aGFzaA==", hash)
	assert.Equal(t, map[string]string{
		"schema":    "1",
		"outformat": "5",
		"Version":   "2",
		"stage":     "deviceCreditCardHash",
	}, form)
}

func TestCCHash_NotAuthenticatedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeXML(w, notAuthedXML)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CCHash(context.Background(), authedSession(t))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCCHash_LocalFlagChecked(t *testing.T) {
	_, err := NewClient(Endpoints{}, nil, nil).CCHash(context.Background(), newTestSession(t))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCCHash_MissingHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeXML(w, `<response><payMethod/></response>`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CCHash(context.Background(), authedSession(t))

	var protoErr *ProtocolError
	require.True(t, errors.As(err, &protoErr))
	assert.Equal(t, "payMethod/ccHash", protoErr.Field)
}
