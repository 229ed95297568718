package module

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"astrochat/internal/adapters/llm/gemini"
	modkit "astrochat/internal/modkit"
	"astrochat/internal/modkit/module"
	phttp "astrochat/internal/platform/net/http"
	ptime "astrochat/internal/platform/time"
	"astrochat/internal/services/api/chat/domain"
	qdomain "astrochat/internal/services/api/quota/domain"
	"astrochat/internal/services/api/quota/repo"
	qsvc "astrochat/internal/services/api/quota/service"
	udomain "astrochat/internal/services/api/usage/domain"

	"github.com/go-chi/chi/v5"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type events struct{ got []udomain.Event }

func (e *events) Record(ev udomain.Event) { e.got = append(e.got, ev) }

func quota(limit int) qdomain.ServicePort {
	clk := ptime.NewFrozen(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	return qsvc.New(repo.NewMemory(), clk, qsvc.Options{DailyLimit: limit})
}

const ask = `{"message":"Career?","userData":{"firstName":"Asha","dateOfBirth":"1992-03-14","placeOfBirth":"Jaipur","timeOfBirth":"04:30"}}`

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresQuota(t *testing.T) {
	if _, err := New(modkit.Deps{}, Options{}); err == nil {
		t.Fatal("expected error without quota port")
	}
}

func TestNew_GeminiFromOptions(t *testing.T) {
	var calls int
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		body := `{"candidates":[{"content":{"parts":[{"text":"Namaste Asha ji!"}]}}]}`
		return &http.Response{StatusCode: 200, Header: http.Header{}, Body: io.NopCloser(strings.NewReader(body))}, nil
	})}

	ev := &events{}
	m, err := New(modkit.Deps{}, Options{
		Gemini: gemini.Options{APIKey: "k", Model: "gemini-test", BaseURL: "http://gemini.test/v1beta", HTTPClient: hc},
	}, modkit.WithPorts(Ports{Quota: quota(3), Usage: ev}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Name() != "chat" || m.Prefix() != "/chat" {
		t.Fatalf("name/prefix = %q %q", m.Name(), m.Prefix())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rec := post(mux, "/chat", ask)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data domain.Reply `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Response != "Namaste Asha ji!" || env.Data.Fallback {
		t.Fatalf("reply = %+v", env.Data)
	}
	if calls != 1 {
		t.Fatalf("gemini calls = %d", calls)
	}
	if len(ev.got) != 1 || ev.got[0].Model != "gemini-test" {
		t.Fatalf("events = %+v", ev.got)
	}
}

func TestNew_NoKeyServesFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	m, err := New(modkit.Deps{}, Options{}, modkit.WithPorts(Ports{Quota: quota(3)}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	port := module.MustPortsOf[domain.ServicePort](m)
	r, err := port.Ask(context.Background(), domain.Request{
		Message:  "health?",
		UserData: domain.BirthDetails{FirstName: "Ravi", DateOfBirth: "1990-01-01", PlaceOfBirth: "Pune", TimeOfBirth: "10:00"},
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !r.Fallback {
		t.Fatal("expected a fallback reply without a key")
	}
}

func TestRoutes_RateLimited(t *testing.T) {
	m, err := New(modkit.Deps{}, Options{RateLimit: 1, RateWindow: time.Minute},
		modkit.WithPorts(Ports{Quota: quota(5), LLM: stubLLM{}}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	if rec := post(mux, "/chat", ask); rec.Code != http.StatusOK {
		t.Fatalf("first: %d", rec.Code)
	}
	rec := post(mux, "/chat", ask)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second: %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Too many requests from this IP") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

type stubLLM struct{}

func (stubLLM) Generate(context.Context, string) (string, error) { return "ok", nil }

func TestMerge_OverridesWin(t *testing.T) {
	base := Options{MaxMessage: 1000, RateLimit: 100, RateWindow: 15 * time.Minute, Gemini: gemini.Options{Model: gemini.DefaultModel}}
	got := merge(base, Options{MaxMessage: 500, Gemini: gemini.Options{Model: "gemini-pro"}})
	if got.MaxMessage != 500 || got.RateLimit != 100 || got.Gemini.Model != "gemini-pro" {
		t.Fatalf("merge = %+v", got)
	}
}
