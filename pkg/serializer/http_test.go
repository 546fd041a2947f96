// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusCreated, map[string]string{"html": "<a>x</a>"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<a>x</a>") {
		t.Errorf("expected unescaped markup, got %s", w.Body.String())
	}
}

func TestRespondJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestHttpReader_ReadWithContext(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("payload"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewHttpReader(WithMaxBytes(32))

	data, err := r.ReadWithContext(context.Background(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("ReadWithContext failed: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("unexpected body %q", data)
	}
	if gotUA != HttpReaderUserAgent {
		t.Errorf("unexpected user agent %q", gotUA)
	}

	tests := []struct {
		path string
		code apperrors.ErrorCode
	}{
		{"/missing", apperrors.ErrCodeNotFound},
		{"/boom", apperrors.ErrCodeUnavailable},
		{"/big", apperrors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := r.ReadWithContext(context.Background(), srv.URL+tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.CodeOf(err); got != tt.code {
				t.Errorf("expected code %s, got %s (%v)", tt.code, got, err)
			}
		})
	}
}

func TestHttpReader_EmptyURL(t *testing.T) {
	if _, err := NewHttpReader().Read(""); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestHttpReader_Cancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHttpReader().ReadWithContext(ctx, srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeTimeout {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline error, got %v", err)
	}
}

func TestHttpReader_Options(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	r := NewHttpReader(WithClient(custom), WithUserAgent("ua"), WithConnectTimeout(time.Second))
	if r.Client != custom {
		t.Error("expected custom client")
	}
	if r.UserAgent != "ua" {
		t.Errorf("unexpected user agent %q", r.UserAgent)
	}

	r = NewHttpReader(WithTotalTimeout(3*time.Second), WithResponseHeaderTimeout(2*time.Second))
	if r.Client.Timeout != 3*time.Second {
		t.Errorf("unexpected timeout %v", r.Client.Timeout)
	}
	if r.transport.ResponseHeaderTimeout != 2*time.Second {
		t.Errorf("unexpected header timeout %v", r.transport.ResponseHeaderTimeout)
	}
}

func TestRespondJSON_RoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, newTestDoc())

	var got testDoc
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Item != "core::str::traits::FromStr" {
		t.Errorf("unexpected item %q", got.Item)
	}
}
