package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
	"github.com/EOPeakDesigns/applink/internal/session"
)

func sessionRouter(d deps.Deps) http.Handler {
	r := chi.NewRouter()
	r.Post("/sessions", BeginSession(d))
	r.Post("/sessions/{id}/events", SessionEvents(d))
	r.Get("/sessions/{id}", SessionStatus(d))
	r.Delete("/sessions/{id}", DismissSession(d))
	return r
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	d := testDeps(t)
	r := sessionRouter(d)

	body := `{
		"owner": "card-1",
		"platform": "instagram",
		"web_url": "https://instagram.com/alice",
		"env": {"user_agent": "` + uaAndroidMobile + `", "viewport_width": 412},
		"initial_hidden": false
	}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("begin status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var st session.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.State != session.StateAttempting {
		t.Errorf("state = %s, want attempting", st.State)
	}
	if len(st.Directives) != 1 || st.Directives[0].Kind != session.DirectiveNavigate {
		t.Fatalf("directives = %+v, want one navigate", st.Directives)
	}
	if !strings.HasPrefix(st.Directives[0].URI, "instagram://") {
		t.Errorf("launch uri = %q", st.Directives[0].URI)
	}

	// Hidden signal: the app took over.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/sessions/"+st.ID+"/events",
		strings.NewReader(`{"signal":"visibility-hidden"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("event status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.Outcome != session.OutcomeAppOpened {
		t.Errorf("outcome = %s, want app_opened", st.Outcome)
	}

	// Status stays queryable after the terminal state.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+st.ID, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status endpoint = %d, want 200", rec.Code)
	}
}

func TestBeginSessionRejectsInvalidAction(t *testing.T) {
	r := sessionRouter(testDeps(t))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions",
		strings.NewReader(`{"platform":"instagram"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSessionEventsUnknownSignal(t *testing.T) {
	d := testDeps(t)
	r := sessionRouter(d)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions",
		strings.NewReader(`{"platform":"instagram","web_url":"https://instagram.com/alice","env":{"user_agent":"`+uaAndroidMobile+`"}}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("begin status = %d", rec.Code)
	}
	var st session.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/sessions/"+st.ID+"/events", strings.NewReader(`{"signal":"shake"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSessionEndpointsUnknownID(t *testing.T) {
	r := sessionRouter(testDeps(t))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/sessions/00000000-0000-0000-0000-000000000000", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDismissSessionOverHTTP(t *testing.T) {
	d := testDeps(t)
	r := sessionRouter(d)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions",
		strings.NewReader(`{"platform":"instagram","web_url":"https://instagram.com/alice","env":{"user_agent":"`+uaAndroidMobile+`"}}`)))
	var st session.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/sessions/"+st.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("dismiss status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.Outcome != session.OutcomeDismissed {
		t.Errorf("outcome = %s, want dismissed", st.Outcome)
	}
}
