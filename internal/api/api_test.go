package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edakseva/grievance-server/internal/analysis"
	"github.com/edakseva/grievance-server/internal/lifecycle"
	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/orders"
	"github.com/edakseva/grievance-server/internal/session"
	"github.com/edakseva/grievance-server/internal/store/docstore"
	"github.com/edakseva/grievance-server/internal/store/memkv"
)

type stubProvider struct{}

func (stubProvider) Classify(context.Context, string) (*analysis.Result, error) {
	return &analysis.Result{
		Classification: model.Classification{
			Category:        model.CategoryDelay,
			Sentiment:       model.SentimentUnhappy,
			Priority:        model.PriorityUrgent,
			RequiresReview:  true,
			ConfidenceScore: 0.9,
		},
		Summary: "Parcel delayed.",
	}, nil
}

func (stubProvider) DraftResponse(context.Context, analysis.DraftRequest) (string, error) {
	return "Subject: Regarding your parcel\n\nDear Customer, ...", nil
}

func (stubProvider) Chat(context.Context, string, []model.ChatTurn) (string, error) {
	return "Namaste! Your parcel is in transit.", nil
}

type stubConnector struct{}

func (stubConnector) FetchNew(context.Context) ([]model.InboundMail, error) {
	return []model.InboundMail{
		{ID: "msg-101", CustomerEmail: "amit.sharma82@gmail.com", Subject: "Speed Post Delay", OriginalText: "4 days stuck", Location: "Karnataka Circle"},
		{ID: "msg-102", CustomerEmail: "priya_verma@gmail.com", Subject: "Damaged parcel", OriginalText: "box torn", Location: "Maharashtra Circle"},
	}, nil
}

func (stubConnector) Send(context.Context, string, string, string) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	s, err := docstore.New(context.Background(), memkv.New(), log)
	require.NoError(t, err)

	mgr := session.NewManager(s, "test-secret")
	ctrl := lifecycle.NewController(s, stubProvider{}, stubConnector{}, log, lifecycle.WithoutDelays())

	srv := httptest.NewServer(NewRouter(Deps{
		Store:    s,
		Sessions: mgr,
		Ctrl:     ctrl,
		Provider: stubProvider{},
		Orders:   orders.NewMockDirectory(),
		Log:      log,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func login(t *testing.T, srv *httptest.Server, role model.Role, id, password string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"role": role, "id": id, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var lr struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &lr))
	require.NotEmpty(t, lr.Token)
	return lr.Token
}

func TestLoginValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"role": "citizen", "id": "12345", "password": "pass1234",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "short customer ID rejected before credential check")

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]any{
		"role": "official", "id": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/complaints", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestComplaintWorkflowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	citizenTok := login(t, srv, model.RoleCitizen, "9876543210", "pass1234")
	officialTok := login(t, srv, model.RoleOfficial, "admin", "1245")

	// Citizen files a complaint.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/complaints", citizenTok, map[string]any{
		"text": "My parcel has been stuck for 10 days", "subject": "Stuck parcel", "type": "Complaint",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var rec model.ComplaintRecord
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.NotEmpty(t, rec.FormalEmailDraft)

	// Officials may not submit.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/complaints", officialTok, map[string]any{
		"text": "x", "subject": "y",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Official pulls the external mailbox.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/sync", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sync struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &sync))
	assert.Equal(t, 2, sync.Count)

	// Second sync imports nothing.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/sync", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sync))
	assert.Zero(t, sync.Count)

	// Citizens may not sync.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/sync", citizenTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Official analyzes a synced record: stages fire in order.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/complaints/msg-101/select", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var sel struct {
		Record model.ComplaintRecord `json:"record"`
		Stages []string              `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(body, &sel))
	assert.Equal(t, []string{"Collection", "Preprocessing", "NLP", "Classification", "Sentiment"}, sel.Stages)
	assert.Equal(t, model.StatusDrafted, sel.Record.Status)

	// Re-selection is a pure read.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/complaints/msg-101/select", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sel))
	assert.Empty(t, sel.Stages)

	// Edit the draft, then dispatch.
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/complaints/msg-101/draft", officialTok, map[string]any{
		"draft": "Dear Customer, we have traced your Speed Post.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/complaints/msg-101/dispatch", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, model.StatusSent, rec.Status)
	assert.Equal(t, "Dear Customer, we have traced your Speed Post.", rec.AdminResponse)

	// Single-record read: the official sees any record, the citizen only
	// their own.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/complaints/msg-101", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, "msg-101", rec.ID)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/complaints/msg-101", citizenTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Citizen listing only shows own records.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/complaints", citizenTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recs []model.ComplaintRecord
	require.NoError(t, json.Unmarshal(body, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "9876543210", recs[0].CustomerID)

	// Dashboard tab filters.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/complaints?tab=sent", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "msg-101", recs[0].ID)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/complaints?tab=inbox&source=mail", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &recs))
	assert.Len(t, recs, 1)

	// Stats reflect the collection.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/stats", officialTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats model.Stats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Solved)
}

func TestChatRequiresCitizen(t *testing.T) {
	srv := newTestServer(t)
	citizenTok := login(t, srv, model.RoleCitizen, "9876543210", "pass1234")
	officialTok := login(t, srv, model.RoleOfficial, "admin", "1245")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/chat", citizenTok, map[string]any{
		"message": "Where is my parcel?",
		"history": []model.ChatTurn{{Role: "model", Text: "Namaste!"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var chat struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(body, &chat))
	assert.Contains(t, chat.Reply, "in transit")

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/chat", officialTok, map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrdersEndpoint(t *testing.T) {
	srv := newTestServer(t)
	citizenTok := login(t, srv, model.RoleCitizen, "9876543210", "pass1234")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/orders", citizenTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []model.PostOrder
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotEmpty(t, got)
	for _, o := range got {
		assert.NotEmpty(t, o.TrackingID)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	tok := login(t, srv, model.RoleCitizen, "9876543210", "pass1234")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/prefs", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p model.Prefs
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, 100, p.DisplayScale)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/prefs", tok, model.Prefs{Language: "te", DisplayScale: 125})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/prefs", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "te", p.Language)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/prefs", tok, model.Prefs{Language: "fr", DisplayScale: 100})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hr struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &hr))
	assert.Contains(t, []string{"healthy", "unhealthy"}, hr.Status)
}

func TestSelectUnknownRecordIs404(t *testing.T) {
	srv := newTestServer(t)
	tok := login(t, srv, model.RoleOfficial, "admin", "1245")

	resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/complaints/%s/select", srv.URL, "nope"), tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
