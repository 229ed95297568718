package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "astrochat/internal/platform/errors"
	phttp "astrochat/internal/platform/net/http"
	ptime "astrochat/internal/platform/time"
	"astrochat/internal/services/api/quota/repo"
	svc "astrochat/internal/services/api/quota/service"

	"github.com/go-chi/chi/v5"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

func newServer(t *testing.T, limit int, mw ...func(stdhttp.Handler) stdhttp.Handler) (stdhttp.Handler, *repo.Memory) {
	t.Helper()
	mem := repo.NewMemory()
	clk := ptime.NewFrozen(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	s := svc.New(mem, clk, svc.Options{DailyLimit: limit, RetryBackoff: time.Millisecond})

	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), s, mw...)
	return mux, mem
}

func post(t *testing.T, h stdhttp.Handler, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s response: %v (body=%s)", path, err, rec.Body.String())
	}
	return rec.Code, env
}

const asha = `{"userData":{"firstName":"Asha","dateOfBirth":"1992-03-14","placeOfBirth":"Jaipur","timeOfBirth":"04:30"}}`

func TestStatus_NewPersonDoesNotCreateRecord(t *testing.T) {
	h, mem := newServer(t, 5)

	code, env := post(t, h, "/status", asha)
	if code != stdhttp.StatusOK {
		t.Fatalf("status code = %d, env=%+v", code, env)
	}
	var st struct {
		Used      int  `json:"questions_used"`
		Limit     int  `json:"daily_limit"`
		Remaining int  `json:"questions_remaining"`
		CanAsk    bool `json:"can_ask"`
	}
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if st.Used != 0 || st.Limit != 5 || st.Remaining != 5 || !st.CanAsk {
		t.Fatalf("status = %+v", st)
	}
	if mem.Len() != 0 {
		t.Fatalf("status created %d records", mem.Len())
	}
}

func TestConsume_CountsAndDenies(t *testing.T) {
	h, _ := newServer(t, 2)

	type decision struct {
		Allowed   bool `json:"allowed_this_request"`
		Used      int  `json:"questions_used_today"`
		Remaining int  `json:"questions_remaining"`
		More      bool `json:"can_ask_more"`
	}
	want := []decision{
		{Allowed: true, Used: 1, Remaining: 1, More: true},
		{Allowed: true, Used: 2, Remaining: 0, More: false},
		{Allowed: false, Used: 2, Remaining: 0, More: false},
	}
	for i, w := range want {
		code, env := post(t, h, "/consume", asha)
		if code != stdhttp.StatusOK {
			t.Fatalf("consume %d: code = %d env=%+v", i+1, code, env)
		}
		var got decision
		if err := json.Unmarshal(env.Data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != w {
			t.Fatalf("consume %d = %+v, want %+v", i+1, got, w)
		}
	}

	// status agrees with the consumed count
	_, env := post(t, h, "/status", asha)
	if !strings.Contains(string(env.Data), `"questions_used":2`) || !strings.Contains(string(env.Data), `"can_ask":false`) {
		t.Fatalf("status after exhaustion = %s", env.Data)
	}
}

func TestValidation(t *testing.T) {
	h, mem := newServer(t, 5)

	tests := []struct {
		name string
		body string
		code perr.ErrorCode
	}{
		{"missing first name", `{"userData":{"dateOfBirth":"1992-03-14"}}`, perr.ErrorCodeValidation},
		{"bad date", `{"userData":{"firstName":"Asha","dateOfBirth":"14/03/1992"}}`, perr.ErrorCodeValidation},
		{"unknown field", `{"userData":{"firstName":"Asha","dateOfBirth":"1992-03-14"},"admin":true}`, perr.ErrorCodeJSON},
		{"malformed", `{"userData":`, perr.ErrorCodeJSON},
		{"empty body", ``, perr.ErrorCodeJSON},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, path := range []string{"/status", "/consume"} {
				code, env := post(t, h, path, tc.body)
				if code != stdhttp.StatusBadRequest || env.Code != tc.code {
					t.Fatalf("%s: code=%d env=%+v, want 400 code %d", path, code, env, tc.code)
				}
			}
		})
	}
	if mem.Len() != 0 {
		t.Fatalf("invalid requests created %d records", mem.Len())
	}
}

func TestConsume_StoreFailureIsGeneric503(t *testing.T) {
	h, mem := newServer(t, 5)
	mem.FailWith = perr.Wrap(errSecret, perr.ErrorCodeDB, "pq: relation quota_records does not exist")

	code, env := post(t, h, "/consume", asha)
	if code != stdhttp.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", code)
	}
	if env.Error != "question tracking unavailable" {
		t.Fatalf("error = %q, driver text must not leak", env.Error)
	}
}

func TestStatus_MiddlewareAppliesOnlyToStatus(t *testing.T) {
	blocked := func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			phttp.RespondError(w, r, perr.TooManyRequestsf("slow down"))
		})
	}
	h, _ := newServer(t, 5, blocked)

	if code, _ := post(t, h, "/status", asha); code != stdhttp.StatusTooManyRequests {
		t.Fatalf("status code = %d, want 429", code)
	}
	if code, _ := post(t, h, "/consume", asha); code != stdhttp.StatusOK {
		t.Fatalf("consume code = %d, want 200", code)
	}
}

var errSecret = perr.New(perr.ErrorCodeDB, "secret driver detail")
