package telephony

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func postVoice(t *testing.T, h WebhookHandler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/twiml", h.HandleVoice)

	req := httptest.NewRequest(http.MethodPost, "/twiml", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleVoice(t *testing.T) {
	form := url.Values{}
	form.Set("CallSid", "CA1")
	form.Set("From", "+15551234567")
	form.Set("To", "+19491112222")

	w := postVoice(t, WebhookHandler{PublicHost: "voice.example.com"}, form)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/xml") {
		t.Fatalf("expected xml content type, got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `wss://voice.example.com/stream`) {
		t.Fatalf("expected stream url in body:\n%s", body)
	}
	if !strings.Contains(body, `value="+15551234567"`) {
		t.Fatalf("expected caller parameter in body:\n%s", body)
	}
}

func TestHandleVoiceWithoutDeduper(t *testing.T) {
	// No Redis configured: the dedup guard is off and the handler still
	// answers.
	form := url.Values{}
	form.Set("CallSid", "CA2")
	w := postVoice(t, WebhookHandler{PublicHost: "voice.example.com"}, form)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

type fakeDeduper struct {
	calls []string
	seen  bool
	err   error
}

func (f *fakeDeduper) Seen(ctx context.Context, callSID string) (bool, error) {
	f.calls = append(f.calls, callSID)
	return f.seen, f.err
}

func TestHandleVoiceMarksDelivery(t *testing.T) {
	dedup := &fakeDeduper{}
	form := url.Values{}
	form.Set("CallSid", "CA3")

	w := postVoice(t, WebhookHandler{PublicHost: "voice.example.com", Dedup: dedup}, form)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(dedup.calls) != 1 || dedup.calls[0] != "CA3" {
		t.Fatalf("expected one dedup check for CA3, got %v", dedup.calls)
	}
}

func TestHandleVoiceDuplicateGetsSameDocument(t *testing.T) {
	first := postVoice(t, WebhookHandler{PublicHost: "voice.example.com", Dedup: &fakeDeduper{}},
		url.Values{"CallSid": {"CA4"}, "From": {"+15551234567"}, "To": {"+19491112222"}})
	dup := postVoice(t, WebhookHandler{PublicHost: "voice.example.com", Dedup: &fakeDeduper{seen: true}},
		url.Values{"CallSid": {"CA4"}, "From": {"+15551234567"}, "To": {"+19491112222"}})

	if dup.Code != http.StatusOK {
		t.Fatalf("duplicate must still be answered, got %d", dup.Code)
	}
	if first.Body.String() != dup.Body.String() {
		t.Fatalf("duplicate must get the same document")
	}
}

func TestHandleVoiceDedupErrorIsNonFatal(t *testing.T) {
	dedup := &fakeDeduper{err: errors.New("redis down")}
	w := postVoice(t, WebhookHandler{PublicHost: "voice.example.com", Dedup: dedup},
		url.Values{"CallSid": {"CA5"}})
	if w.Code != http.StatusOK {
		t.Fatalf("dedup failure must not block the call, got %d", w.Code)
	}
}
