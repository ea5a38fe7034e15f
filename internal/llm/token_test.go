package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCredential(t *testing.T) {
	cred, err := ParseCredential("tid=abc123;exp=1756400000;sku=free;proxy-ep=proxy.example.com;chat=1;8kp=1")
	require.NoError(t, err)
	assert.Equal(t, "abc123", cred.TID)
	assert.Equal(t, int64(1756400000), cred.Exp)
	assert.Equal(t, "free", cred.SKU)
	assert.Equal(t, "proxy.example.com", cred.ProxyEndpoint)
	assert.True(t, cred.Chat)
}

func TestParseCredential_Defaults(t *testing.T) {
	cred, err := ParseCredential("tid=abc;exp=100")
	require.NoError(t, err)
	assert.Equal(t, defaultProxyEndpoint, cred.ProxyEndpoint)
	assert.False(t, cred.Chat)
}

func TestParseCredential_ValueWithEquals(t *testing.T) {
	cred, err := ParseCredential("tid=a=b=c;exp=100")
	require.NoError(t, err)
	assert.Equal(t, "a=b=c", cred.TID)
}

func TestParseCredential_Empty(t *testing.T) {
	_, err := ParseCredential("  ")
	assert.Error(t, err)
}

func TestCredentialExpired(t *testing.T) {
	deadline := time.Unix(1756400000, 0)
	cred := &Credential{Exp: deadline.Unix()}

	assert.False(t, cred.Expired(deadline.Add(-5*time.Minute)))
	// Inside the refresh skew counts as expired.
	assert.True(t, cred.Expired(deadline.Add(-30*time.Second)))
	assert.True(t, cred.Expired(deadline.Add(time.Minute)))

	var nilCred *Credential
	assert.True(t, nilCred.Expired(deadline))
	assert.True(t, (&Credential{}).Expired(deadline))
}
