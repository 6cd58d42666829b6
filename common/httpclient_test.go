package common_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/izniy/NexusBook/common"
)

func TestNewHttpClient(t *testing.T) {
	client := common.NewHttpClient("MyUserAgent", &http.Client{}, 0)
	if client == nil {
		t.Fatal("expected non-nil HttpClient")
	}
	client.CloseIdleConnections()
}

func TestNewHttpClient_NilBase(t *testing.T) {
	if common.NewHttpClient("UA", nil, time.Second) == nil {
		t.Fatal("expected non-nil HttpClient for nil base")
	}
}

func TestHttpClient_Do(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "TestUserAgent" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "wrong user-agent")
			return
		}
		fmt.Fprint(w, "hello world")
	}))
	defer ts.Close()

	hc := common.NewHttpClient("TestUserAgent", &http.Client{}, time.Second)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "hello world" {
		t.Errorf("unexpected response: %d %s", resp.StatusCode, string(body))
	}
}

func TestHttpClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	hc := common.NewHttpClient("UA", &http.Client{}, 50*time.Millisecond)
	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	if _, err := hc.Do(req); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHTTPError_Error(t *testing.T) {
	err := &common.HTTPError{StatusCode: http.StatusBadGateway, Body: []byte("upstream down")}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "upstream down") {
		t.Errorf("unexpected error text: %s", err.Error())
	}
}
