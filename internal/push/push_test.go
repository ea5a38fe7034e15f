package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/store/sqlite"
	"github.com/swunglabs/swung/internal/timeutil"
)

func tokenFixture(t *testing.T) (store.Store, int64) {
	t.Helper()
	clk, err := timeutil.NewClock("UTC")
	require.NoError(t, err)
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "swung.db"), clk.NowString)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	u, err := st.Users().Create(context.Background(), &model.User{Username: "tester"})
	require.NoError(t, err)
	return st, u.ID
}

func TestSend_MulticastAndPrune(t *testing.T) {
	st, uid := tokenFixture(t)
	ctx := context.Background()
	require.NoError(t, st.PushTokens().Upsert(ctx, &model.PushToken{UserID: uid, Token: "alive", Platform: "web"}))
	require.NoError(t, st.PushTokens().Upsert(ctx, &model.PushToken{UserID: uid, Token: "dead", Platform: "android"}))

	var gotAuth string
	var gotReq multicastRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		// Report failure for the token named "dead", by position.
		resp := multicastResponse{}
		for _, id := range gotReq.RegistrationIDs {
			entry := struct {
				Error string `json:"error"`
			}{}
			if id == "dead" {
				entry.Error = "NotRegistered"
				resp.Failure++
			}
			resp.Results = append(resp.Results, entry)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "secret-key", st.PushTokens())
	require.NoError(t, s.Send(ctx, uid, "Reminder: Dentist", "Dentist starts in 15 minutes"))

	assert.Equal(t, "key=secret-key", gotAuth)
	assert.ElementsMatch(t, []string{"alive", "dead"}, gotReq.RegistrationIDs)
	assert.Equal(t, "Reminder: Dentist", gotReq.Notification["title"])

	remaining, err := st.PushTokens().ListByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "alive", remaining[0].Token)
}

func TestSend_NoTokensIsNoop(t *testing.T) {
	st, uid := tokenFixture(t)
	s := NewSender("http://unused.invalid", "key", st.PushTokens())
	assert.NoError(t, s.Send(context.Background(), uid, "t", "b"))
}

func TestSend_UnconfiguredSkips(t *testing.T) {
	st, uid := tokenFixture(t)
	ctx := context.Background()
	require.NoError(t, st.PushTokens().Upsert(ctx, &model.PushToken{UserID: uid, Token: "x"}))

	s := NewSender("http://unused.invalid", "", st.PushTokens())
	assert.False(t, s.Configured())
	assert.NoError(t, s.Send(ctx, uid, "t", "b"))
}

func TestSend_UpstreamFailure(t *testing.T) {
	st, uid := tokenFixture(t)
	ctx := context.Background()
	require.NoError(t, st.PushTokens().Upsert(ctx, &model.PushToken{UserID: uid, Token: "x"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "bad-key", st.PushTokens())
	err := s.Send(ctx, uid, "t", "b")
	assert.ErrorIs(t, err, model.ErrUpstream)

	// Dead-token pruning never runs on transport failures.
	remaining, listErr := st.PushTokens().ListByUser(ctx, uid)
	require.NoError(t, listErr)
	assert.Len(t, remaining, 1)
}
