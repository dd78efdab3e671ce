package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edakseva/grievance-server/internal/model"
)

// fakeOllama serves canned /api/generate and /api/chat responses.
func fakeOllama(t *testing.T, generateBody string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"response": generateBody})
		case "/api/chat":
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]string{"role": "assistant", "content": "Namaste! Your parcel is in transit."},
			})
		case "/api/tags":
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"models":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestClassifyParsesEngineOutput(t *testing.T) {
	srv := fakeOllama(t, `{"category":"Delay","sentiment":"Angry","priority":"Urgent","response":"Parcel delayed in transit.","requiresReview":true,"confidenceScore":0.93}`, http.StatusOK)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	res, err := p.Classify(context.Background(), "My parcel is 10 days late and nobody answers!")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDelay, res.Category)
	assert.Equal(t, model.SentimentAngry, res.Sentiment)
	assert.Equal(t, model.PriorityUrgent, res.Priority)
	assert.True(t, res.RequiresReview)
	assert.InDelta(t, 0.93, res.ConfidenceScore, 1e-9)
	assert.Equal(t, "Parcel delayed in transit.", res.Summary)
}

func TestClassifyNormalizesVocabularyCase(t *testing.T) {
	srv := fakeOllama(t, `{"category":"damage","sentiment":"UNHAPPY","priority":"normal","response":"ok","requiresReview":false,"confidenceScore":1.4}`, http.StatusOK)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	res, err := p.Classify(context.Background(), "box arrived crushed")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDamage, res.Category)
	assert.Equal(t, model.SentimentUnhappy, res.Sentiment)
	assert.Equal(t, model.PriorityNormal, res.Priority)
	assert.Equal(t, 1.0, res.ConfidenceScore, "confidence clamps to [0,1]")
}

func TestClassifyRejectsUnknownVocabulary(t *testing.T) {
	srv := fakeOllama(t, `{"category":"Weather","sentiment":"Neutral","priority":"Normal","response":"","requiresReview":false,"confidenceScore":0.5}`, http.StatusOK)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	_, err := p.Classify(context.Background(), "hello")
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "classify", aerr.Op)
}

func TestClassifyUnparseableOutput(t *testing.T) {
	srv := fakeOllama(t, `sure! here is the classification you asked for`, http.StatusOK)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	_, err := p.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable")
}

func TestClassifyEngineDown(t *testing.T) {
	srv := fakeOllama(t, ``, http.StatusInternalServerError)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	_, err := p.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDraftResponseInvalidCategorySkipsEngine(t *testing.T) {
	// No server at all: the fixed notice must come back without a call.
	p := NewOllamaProvider("http://127.0.0.1:1", "mistral")
	draft, err := p.DraftResponse(context.Background(), DraftRequest{
		ComplaintText: "asdfgh",
		Category:      model.CategoryInvalid,
		Sentiment:     model.SentimentNeutral,
		Priority:      model.PriorityLow,
		Language:      "hi",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(draft, "Subject: Notification regarding your recent submission"))
	assert.Contains(t, draft, "e_DakSeva Customer Support Team")
}

func TestDraftResponseUsesEngine(t *testing.T) {
	srv := fakeOllama(t, "Subject: Regarding your delayed parcel\n\nDear Customer, ...", http.StatusOK)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	draft, err := p.DraftResponse(context.Background(), DraftRequest{
		ComplaintText: "parcel late",
		Category:      model.CategoryDelay,
		Sentiment:     model.SentimentUnhappy,
		Priority:      model.PriorityNormal,
		Language:      "en",
	})
	require.NoError(t, err)
	assert.Contains(t, draft, "delayed parcel")
}

func TestChatRoundTrip(t *testing.T) {
	srv := fakeOllama(t, ``, http.StatusOK)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	reply, err := p.Chat(context.Background(), "Where is my parcel?", []model.ChatTurn{
		{Role: "model", Text: "Namaste! I am DakMitra."},
		{Role: "user", Text: "Hi"},
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "in transit")
}

func TestHealthPing(t *testing.T) {
	srv := fakeOllama(t, ``, http.StatusOK)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "mistral")
	require.NoError(t, p.HealthPing(context.Background()))

	srv.Close()
	require.Error(t, p.HealthPing(context.Background()))
}
