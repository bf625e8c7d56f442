// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value int `json:"value"`
}

func TestGetJSON_Success(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"value": 42}`)
	}))
	defer ts.Close()

	var p payload
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "test/0.1", &p)
	require.NoError(t, err)
	assert.Equal(t, 42, p.Value)
	assert.Equal(t, "test/0.1", gotUA)
}

func TestGetJSON_NonSuccessStatus(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusNotFound} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
				fmt.Fprint(w, `{"value": 1}`)
			}))
			defer ts.Close()

			var p payload
			err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &p)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, code, se.StatusCode)
			assert.Equal(t, fmt.Sprintf("HTTP %d", code), se.Error())
		})
	}
}

func TestGetJSON_NoRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	var p payload
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &p)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetJSON_Malformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer ts.Close()

	var p payload
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &p)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestGetJSON_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var p payload
	err := GetJSON(ctx, ts.Client(), ts.URL, "", &p)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
