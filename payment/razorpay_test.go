package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "secret")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewClient("key", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	client, err := NewClient("key", "secret")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestVerifySignatureAcceptsValidSignature(t *testing.T) {
	client, err := NewClient("key_id", "top-secret")
	require.NoError(t, err)

	sig := sign("top-secret", "order_abc", "pay_xyz")
	assert.True(t, client.VerifySignature("order_abc", "pay_xyz", sig))
}

func TestVerifySignatureRejectsTamperedInput(t *testing.T) {
	client, err := NewClient("key_id", "top-secret")
	require.NoError(t, err)

	sig := sign("top-secret", "order_abc", "pay_xyz")

	// Any single changed character invalidates the signature.
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", string(tampered)))

	// A signature for a different payment does not transfer.
	assert.False(t, client.VerifySignature("order_abc", "pay_other", sig))
}

func TestVerifySignatureRejectsEmptyInput(t *testing.T) {
	client, err := NewClient("key_id", "top-secret")
	require.NoError(t, err)

	sig := sign("top-secret", "order_abc", "pay_xyz")
	assert.False(t, client.VerifySignature("", "pay_xyz", sig))
	assert.False(t, client.VerifySignature("order_abc", "", sig))
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", ""))
}

func TestCreateOrderSendsAmountInPaise(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "top-secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_test123",
			Amount:   64000,
			Currency: "INR",
			Status:   "created",
		})
	}))
	defer srv.Close()

	client, err := NewClient("key_id", "top-secret")
	require.NoError(t, err)
	client.baseURL = srv.URL

	order, err := client.CreateOrder(context.Background(), 640.00)
	require.NoError(t, err)

	assert.Equal(t, "order_test123", order.ID)
	assert.Equal(t, int64(64000), order.Amount)
	assert.Equal(t, float64(64000), got["amount"])
	assert.Equal(t, "INR", got["currency"])
	assert.NotEmpty(t, got["receipt"])
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client, err := NewClient("key_id", "top-secret")
	require.NoError(t, err)

	_, err = client.CreateOrder(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = client.CreateOrder(context.Background(), -10)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateOrderSurfacesGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient("key_id", "top-secret")
	require.NoError(t, err)
	client.baseURL = srv.URL

	_, err = client.CreateOrder(context.Background(), 100)
	assert.Error(t, err)
}
