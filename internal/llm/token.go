package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/swunglabs/swung/internal/model"
)

// Credential is the parsed form of an upstream access token. Tokens are
// semicolon-separated key=value fields, e.g.
// "tid=...;exp=1735689600;sku=free;proxy-ep=proxy.individual.githubcopilot.com;chat=1".
type Credential struct {
	TID           string
	Exp           int64 // unix seconds
	SKU           string
	ProxyEndpoint string
	Chat          bool
	Raw           string
}

const defaultProxyEndpoint = "proxy.individual.githubcopilot.com"

// expirySkew refreshes tokens slightly early so an in-flight request doesn't
// race the deadline.
const expirySkew = 60 * time.Second

// ParseCredential decodes the token's embedded fields. Values containing '='
// are preserved intact.
func ParseCredential(token string) (*Credential, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("empty credential")
	}
	cred := &Credential{ProxyEndpoint: defaultProxyEndpoint, Raw: token}
	for _, part := range strings.Split(token, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch key {
		case "tid":
			cred.TID = val
		case "exp":
			exp, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, errors.Wrap(err, "parse credential exp")
			}
			cred.Exp = exp
		case "sku":
			cred.SKU = val
		case "proxy-ep":
			cred.ProxyEndpoint = val
		case "chat":
			cred.Chat = val == "1"
		}
	}
	return cred, nil
}

// Expired reports whether the credential is past (or within the skew of) its
// deadline. A credential without an exp field is treated as expired.
func (c *Credential) Expired(now time.Time) bool {
	if c == nil || c.Exp == 0 {
		return true
	}
	return now.After(time.Unix(c.Exp, 0).Add(-expirySkew))
}

// TokenSet is the persisted login state produced by the device-flow login.
type TokenSet struct {
	GithubAccessToken string `json:"githubAccessToken"`
	CopilotToken      string `json:"copilotToken"`
	CopilotExpiresAt  int64  `json:"copilotExpiresAt"` // unix millis
	ProxyEndpoint     string `json:"proxyEndpoint,omitempty"`
	UpdatedAt         int64  `json:"updatedAt,omitempty"`
}

// FileTokenSource loads the token set from a JSON file and refreshes the
// short-lived upstream credential from the long-lived GitHub token when it
// nears expiry. Safe for concurrent use.
type FileTokenSource struct {
	path string
	http *resty.Client
	now  func() time.Time

	mu   sync.Mutex
	cred *Credential
	set  *TokenSet
}

// NewFileTokenSource reads credentials from path. The file may not exist yet;
// Credential returns model.ErrNotAuthenticated until a login writes it.
func NewFileTokenSource(path string, http *resty.Client) *FileTokenSource {
	return &FileTokenSource{path: path, http: http, now: time.Now}
}

// Credential returns a non-expired upstream credential, refreshing and
// re-persisting it if needed.
func (s *FileTokenSource) Credential() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred != nil && !s.cred.Expired(s.now()) {
		return s.cred, nil
	}

	set, err := loadTokenSet(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNotAuthenticated, err)
	}
	s.set = set

	cred, err := ParseCredential(set.CopilotToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNotAuthenticated, err)
	}
	if !cred.Expired(s.now()) {
		s.cred = cred
		return cred, nil
	}

	if set.GithubAccessToken == "" {
		return nil, fmt.Errorf("%w: credential expired and no refresh token", model.ErrNotAuthenticated)
	}
	refreshed, err := FetchUpstreamCredential(s.http, set.GithubAccessToken)
	if err != nil {
		return nil, err
	}
	cred, err = ParseCredential(refreshed)
	if err != nil {
		return nil, errors.Wrap(err, "parse refreshed credential")
	}
	set.CopilotToken = refreshed
	set.CopilotExpiresAt = cred.Exp * 1000
	set.ProxyEndpoint = cred.ProxyEndpoint
	set.UpdatedAt = s.now().UnixMilli()
	if err := SaveTokenSet(s.path, set); err != nil {
		return nil, errors.Wrap(err, "persist refreshed credential")
	}
	s.cred = cred
	return cred, nil
}

func loadTokenSet(path string) (*TokenSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var set TokenSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if set.CopilotToken == "" {
		return nil, fmt.Errorf("%s has no credential", path)
	}
	return &set, nil
}

// SaveTokenSet writes the login state with owner-only permissions.
func SaveTokenSet(path string, set *TokenSet) error {
	raw, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// FetchUpstreamCredential exchanges a GitHub access token for a short-lived
// chat credential.
func FetchUpstreamCredential(http *resty.Client, githubToken string) (string, error) {
	var body struct {
		Token string `json:"token"`
	}
	resp, err := http.R().
		SetHeader("Authorization", "Bearer "+githubToken).
		SetHeader("Accept", "application/json").
		SetHeader("Editor-Version", editorVersion).
		SetHeader("Editor-Plugin-Version", editorPluginVersion).
		SetResult(&body).
		Get("https://api.github.com/copilot_internal/v2/token")
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", model.ErrUpstream, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: token exchange returned %d", model.ErrUpstream, resp.StatusCode())
	}
	if body.Token == "" {
		return "", fmt.Errorf("%w: token exchange returned empty credential", model.ErrUpstream)
	}
	return body.Token, nil
}
