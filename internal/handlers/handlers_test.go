package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Lllllllleong/applicationtracker/internal/mailbox"
	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/Lllllllleong/applicationtracker/internal/repository"
	"github.com/Lllllllleong/applicationtracker/internal/services"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
)

type oneMessageSource struct{}

func (oneMessageSource) ListMessageIDs(ctx context.Context, query, pageToken string) ([]string, string, error) {
	return []string{"m1"}, "", nil
}

func (oneMessageSource) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	return &gmail.Message{Id: id, Payload: &gmail.MessagePart{
		MimeType: "text/plain",
		Headers: []*gmail.MessagePartHeader{
			{Name: "From", Value: "Jane <jane@Acme.io>"},
			{Name: "Subject", Value: "Application received"},
		},
		Body: &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte("Thank you for applying"))},
	}}, nil
}

type testEnv struct {
	repo   *repository.MemoryRepository
	server *httptest.Server
	tokens *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-1","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokens.Close)

	repo := repository.NewMemoryRepository()
	sweeper := services.NewSweeper(repo)
	tracker := services.NewTracker(repo, sweeper)
	sync := services.NewSyncFunction(repo, func(ctx context.Context, tok *oauth2.Token) (mailbox.Source, error) {
		return oneMessageSource{}, nil
	}, nil, nil)
	oauthCfg := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/api/gmail/callback",
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: tokens.URL},
	}

	srv := httptest.NewServer(New(tracker, sync, oauthCfg, false).Routes())
	t.Cleanup(srv.Close)
	return &testEnv{repo: repo, server: srv, tokens: tokens}
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := noRedirectClient().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestApplicationLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/applications", `{"company":"Acme","position":"SRE"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created models.Application
	decode(t, resp, &created)
	if created.ID == "" || created.Status != models.StatusApplied {
		t.Fatalf("created = %+v", created)
	}

	resp = env.do(t, http.MethodPatch, "/api/applications/"+created.ID, `{"status":"interview","notes":"Tuesday"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/applications/"+created.ID, "")
	var got models.Application
	decode(t, resp, &got)
	if got.Status != models.StatusInterview || got.Notes != "Tuesday" {
		t.Errorf("after update = %+v", got)
	}

	resp = env.do(t, http.MethodPost, "/api/applications/"+created.ID+"/follow-up", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("follow-up status = %d", resp.StatusCode)
	}
	stored, _ := env.repo.Get(context.Background(), created.ID)
	if stored.Status != models.StatusWaiting || stored.Notes != services.FollowUpNote || stored.FollowUpDate == nil {
		t.Errorf("after follow-up = %+v", stored)
	}

	resp = env.do(t, http.MethodDelete, "/api/applications/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/api/applications/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateAndUpdateWithFormDates(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/applications",
		`{"company":"Acme","position":"SRE","applicationDate":"2026-10-01","status":"applied"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created models.Application
	decode(t, resp, &created)
	if want := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC); !created.ApplicationDate.Equal(want) {
		t.Errorf("created ApplicationDate = %v, want %v", created.ApplicationDate, want)
	}

	resp = env.do(t, http.MethodPatch, "/api/applications/"+created.ID, `{"applicationDate":"2026-09-28"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	stored, err := env.repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC); !stored.ApplicationDate.Equal(want) {
		t.Errorf("updated ApplicationDate = %v, want %v", stored.ApplicationDate, want)
	}

	resp = env.do(t, http.MethodPost, "/api/applications", `{"company":"Acme","applicationDate":"1 Oct 2026"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed date status = %d, want 400", resp.StatusCode)
	}
}

func TestListGhostsStaleApplications(t *testing.T) {
	env := newTestEnv(t)
	old := time.Now().AddDate(0, 0, -20)
	env.repo.Create(context.Background(), models.Application{Company: "Acme", Status: models.StatusApplied, ApplicationDate: old, LastUpdate: old})

	before := time.Now()
	resp := env.do(t, http.MethodGet, "/api/applications", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var apps []models.Application
	decode(t, resp, &apps)
	if len(apps) != 1 || apps[0].Status != models.StatusGhosted {
		t.Fatalf("apps = %+v", apps)
	}
	if apps[0].LastUpdate.Before(before) {
		t.Errorf("LastUpdate = %v, want refreshed at call time", apps[0].LastUpdate)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/applications", "")
	var raw json.RawMessage
	decode(t, resp, &raw)
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("body = %s, want []", raw)
	}
}

func TestBadRequests(t *testing.T) {
	env := newTestEnv(t)
	id, _ := env.repo.Create(context.Background(), models.Application{Company: "Acme"})

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/applications", "{not json", http.StatusBadRequest},
		{http.MethodPost, "/api/applications", `{"status":"hired"}`, http.StatusBadRequest},
		{http.MethodPatch, "/api/applications/" + id, `{"status":"hired"}`, http.StatusBadRequest},
		{http.MethodPatch, "/api/applications/missing", `{"notes":"x"}`, http.StatusNotFound},
		{http.MethodPost, "/api/applications/missing/follow-up", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp := env.do(t, tt.method, tt.path, tt.body)
		if resp.StatusCode != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	env.repo.Create(context.Background(), models.Application{Status: models.StatusOffer, ApplicationDate: time.Now()})

	resp := env.do(t, http.MethodGet, "/api/stats", "")
	var stats models.StatsResponse
	decode(t, resp, &stats)
	if stats.Total != 1 || stats.Offers != 1 || stats.ResponseRate != 100 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGmailConnectAndCallback(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/gmail/connect", "")
	var connect models.ConnectResponse
	decode(t, resp, &connect)
	state := findCookie(resp, stateCookie)
	if state == nil {
		t.Fatal("no state cookie")
	}
	u, err := url.Parse(connect.AuthURL)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("state") != state.Value || u.Query().Get("access_type") != "offline" {
		t.Errorf("auth url = %s", connect.AuthURL)
	}

	resp = env.do(t, http.MethodGet, "/api/gmail/callback?code=good-code&state=wrong", "", state)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("mismatched state status = %d, want 400", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/gmail/callback?state="+state.Value, "", state)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing code status = %d, want 400", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/gmail/callback?code=good-code&state="+state.Value, "", state)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("callback = %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	access := findCookie(resp, accessTokenCookie)
	refresh := findCookie(resp, refreshTokenCookie)
	if access == nil || access.Value != "access-1" || access.MaxAge != 3600 || !access.HttpOnly {
		t.Errorf("access cookie = %+v", access)
	}
	if refresh == nil || refresh.Value != "refresh-1" || refresh.MaxAge != 30*24*3600 {
		t.Errorf("refresh cookie = %+v", refresh)
	}

	resp = env.do(t, http.MethodGet, "/api/gmail/callback?code=bad-code", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("failed exchange status = %d, want 500", resp.StatusCode)
	}
}

func TestOAuth2CallbackRedirect(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/oauth2callback?code=abc&scope=x", "")
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/api/gmail/callback?code=abc&scope=x" {
		t.Errorf("Location = %q", got)
	}
}

func TestGmailStatusDisconnectAndSync(t *testing.T) {
	env := newTestEnv(t)
	access := &http.Cookie{Name: accessTokenCookie, Value: "access-1"}

	var status models.StatusResponse
	decode(t, env.do(t, http.MethodGet, "/api/gmail/status", ""), &status)
	if status.Connected {
		t.Error("connected without cookie")
	}
	decode(t, env.do(t, http.MethodGet, "/api/gmail/status", "", access), &status)
	if !status.Connected {
		t.Error("not connected with cookie")
	}

	resp := env.do(t, http.MethodPost, "/api/gmail/sync", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("sync without token = %d, want 401", resp.StatusCode)
	}

	for i, wantNew := range []int{1, 0} {
		resp = env.do(t, http.MethodPost, "/api/gmail/sync", "", access)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("sync %d status = %d", i, resp.StatusCode)
		}
		var res models.SyncResponse
		decode(t, resp, &res)
		if !res.Success || res.TotalMessages != 1 || res.NewApplications != wantNew {
			t.Errorf("sync %d = %+v, want %d new", i, res, wantNew)
		}
	}

	resp = env.do(t, http.MethodPost, "/api/gmail/disconnect", "", access)
	if c := findCookie(resp, accessTokenCookie); c == nil || c.MaxAge >= 0 {
		t.Errorf("access cookie not cleared: %+v", c)
	}
	if c := findCookie(resp, refreshTokenCookie); c == nil || c.MaxAge >= 0 {
		t.Errorf("refresh cookie not cleared: %+v", c)
	}
}
