package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/swunglabs/swung/internal/model"
)

// GitHub device-flow login. The admin CLI drives this once to mint the token
// file the service reads at runtime.

// DefaultClientID is the GitHub OAuth app the Copilot editor plugins use.
const DefaultClientID = "Iv1.b507a08c87ecfe98"

// DeviceAuth is the first leg of the device flow: the code the user enters at
// the verification URL.
type DeviceAuth struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// StartDeviceFlow requests a device/user code pair.
func StartDeviceFlow(http *resty.Client, clientID string) (*DeviceAuth, error) {
	var out DeviceAuth
	resp, err := http.R().
		SetHeader("Accept", "application/json").
		SetBody(map[string]string{"client_id": clientID, "scope": "read:user"}).
		SetResult(&out).
		Post("https://github.com/login/device/code")
	if err != nil {
		return nil, fmt.Errorf("%w: start device flow: %v", model.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: start device flow returned %d", model.ErrUpstream, resp.StatusCode())
	}
	if out.DeviceCode == "" {
		return nil, errors.New("device flow returned no device code")
	}
	return &out, nil
}

// PollForAccessToken polls until the user authorizes, the code expires, or
// ctx is done. The poll interval grows when GitHub asks to slow down.
func PollForAccessToken(ctx context.Context, http *resty.Client, clientID string, auth *DeviceAuth) (string, error) {
	interval := time.Duration(auth.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}

		var out struct {
			AccessToken string `json:"access_token"`
			Error       string `json:"error"`
			ErrorDesc   string `json:"error_description"`
		}
		resp, err := http.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetBody(map[string]string{
				"client_id":   clientID,
				"device_code": auth.DeviceCode,
				"grant_type":  "urn:ietf:params:oauth:grant-type:device_code",
			}).
			SetResult(&out).
			Post("https://github.com/login/oauth/access_token")
		if err != nil {
			return "", fmt.Errorf("%w: poll for token: %v", model.ErrUpstream, err)
		}
		if resp.IsError() {
			return "", fmt.Errorf("%w: poll for token returned %d", model.ErrUpstream, resp.StatusCode())
		}

		switch {
		case out.AccessToken != "":
			return out.AccessToken, nil
		case out.Error == "authorization_pending":
			continue
		case out.Error == "slow_down":
			interval += 5 * time.Second
		case out.Error == "expired_token":
			return "", errors.New("device code expired, start the login again")
		case out.Error == "access_denied":
			return "", errors.New("authorization denied")
		case out.Error != "":
			return "", errors.Errorf("device flow error: %s (%s)", out.Error, out.ErrorDesc)
		}
	}
}

// CompleteLogin exchanges the GitHub access token for an upstream credential
// and writes the token file the service reads.
func CompleteLogin(http *resty.Client, path, githubToken string) (*TokenSet, error) {
	credToken, err := FetchUpstreamCredential(http, githubToken)
	if err != nil {
		return nil, err
	}
	cred, err := ParseCredential(credToken)
	if err != nil {
		return nil, err
	}
	set := &TokenSet{
		GithubAccessToken: githubToken,
		CopilotToken:      credToken,
		CopilotExpiresAt:  cred.Exp * 1000,
		ProxyEndpoint:     cred.ProxyEndpoint,
		UpdatedAt:         time.Now().UnixMilli(),
	}
	if err := SaveTokenSet(path, set); err != nil {
		return nil, err
	}
	return set, nil
}
