package common_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/izniy/NexusBook/common"
)

func TestNewAuthorizedClient_AddsBearer(t *testing.T) {
	var gotAuth, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	base := common.NewAuthorizedClient("secret", &http.Client{})
	hc := common.NewHttpClient("UA", base, time.Second)

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	resp, err := hc.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotUA != "UA" {
		t.Errorf("expected user agent UA, got %q", gotUA)
	}
}

func TestNewAuthorizedClient_NoToken(t *testing.T) {
	base := &http.Client{}
	if got := common.NewAuthorizedClient("", base); got != base || got.Transport != nil {
		t.Error("expected base client returned unchanged when token is empty")
	}
}
