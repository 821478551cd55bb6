package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grabbi-storefront/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL + "/"})
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{BaseURL: "http://api.test/"})
	assert.Equal(t, "http://api.test", c.baseURL)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
}

func TestDo_AttachesTokenAndIdempotencyKey(t *testing.T) {
	var gotAuth, gotKey, gotContentType string
	var gotBody map[string]interface{}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get(IdempotencyHeader)
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := WithIdempotencyKey(context.Background(), "attempt-1")
	err := c.UpdateIdentity(ctx, "tok", dtos.Identity{ID: 7, Points: 300})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "attempt-1", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, float64(300), gotBody["Points"])
	assert.Equal(t, float64(7), gotBody["Id"])
}

func TestDo_NoIdempotencyKeyOnGet(t *testing.T) {
	var gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(IdempotencyHeader)
		w.Write([]byte(`{"Id":3,"Name":"Mug","PointsRequired":50}`))
	})

	ctx := WithIdempotencyKey(context.Background(), "attempt-1")
	reward, err := c.GetReward(ctx, "", 3)
	require.NoError(t, err)
	assert.Empty(t, gotKey)
	assert.Equal(t, 50, reward.PointsRequired)
}

func TestDo_PublicCallHasNoAuthorization(t *testing.T) {
	var hasAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	})

	_, err := c.ListProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestDo_StructuredErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"Insufficient stock"}`, "Insufficient stock"},
		{"message field", `{"message":"Points must be positive"}`, "Points must be positive"},
		{"problem details", `{"title":"One or more validation errors occurred.","errors":{"Points":["bad"]}}`, "One or more validation errors occurred."},
		{"errors map only", `{"errors":{"Email":["Email is taken"]}}`, "Email is taken"},
		{"json string", `"Username not found"`, "Username not found"},
		{"plain text", "conflict on user row", "conflict on user row"},
		{"html", "<html>oops</html>", "Conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				io.WriteString(w, tt.body)
			})

			err := c.UpdateIdentity(context.Background(), "tok", dtos.Identity{})
			require.Error(t, err)
			assert.Equal(t, http.StatusConflict, StatusCode(err))
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestDo_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(Config{BaseURL: server.URL})
	err := c.CreateRedeemedReward(context.Background(), "tok", dtos.RedeemedReward{})
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "Could not reach the server. Please try again.", Message(err))
}

func TestDo_OversizedResponseIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte(" "), maxResponseBody+1))
	})

	_, err := c.DoRaw(context.Background(), http.MethodGet, "/product", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response too large")
}

func TestDo_ResponseAtLimitIsAccepted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte(" "), maxResponseBody))
	})

	data, err := c.DoRaw(context.Background(), http.MethodGet, "/product", "", nil)
	require.NoError(t, err)
	assert.Len(t, data, maxResponseBody)
}

func TestCheckUsername(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   int64
		err    bool
	}{
		{"bare number", 200, `42`, 42, false},
		{"object with Id", 200, `{"Id":42,"Name":"alice"}`, 42, false},
		{"object with customerId", 200, `{"customerId":42}`, 42, false},
		{"nested user", 200, `{"User":{"Id":42}}`, 42, false},
		{"null", 200, `null`, 0, false},
		{"empty", 200, ``, 0, false},
		{"false", 200, `false`, 0, false},
		{"zero", 200, `0`, 0, false},
		{"not found", 404, `{"error":"not found"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.EscapedPath()
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			id, err := c.CheckUsername(context.Background(), "tok", "alice")
			assert.Equal(t, "/redeemedreward/check-username/alice", gotPath)
			if tt.err {
				require.Error(t, err)
				assert.True(t, IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestCheckUsername_EscapesPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		io.WriteString(w, `1`)
	})

	_, err := c.CheckUsername(context.Background(), "tok", "a b/c")
	require.NoError(t, err)
	assert.Equal(t, "/redeemedreward/check-username/a%20b%2Fc", gotPath)
}

func TestCreateRedeemedReward_WireFormat(t *testing.T) {
	var got map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/redeemedreward", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	err := c.CreateRedeemedReward(context.Background(), "tok", dtos.RedeemedReward{
		Name:               "Mug",
		PointsUsed:         200,
		Timestamp:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		CustomerID:         42,
		OriginalCustomerID: 7,
		IsGifted:           true,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(42), got["CustomerId"])
	assert.Equal(t, float64(7), got["OriginalCustomerId"])
	assert.Equal(t, true, got["IsGifted"])
	assert.Equal(t, float64(200), got["PointsUsed"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["Timestamp"])
}

func TestLogin_DecodesAuthResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		io.WriteString(w, `{"Token":"abc","User":{"Id":7,"Name":"Sam","Points":500,"Tier":"Gold","Role":"customer"}}`)
	})

	resp, err := c.Login(context.Background(), "sam@test.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.Equal(t, int64(7), resp.User.ID)
	assert.Equal(t, dtos.TierGold, resp.User.Tier)
}
