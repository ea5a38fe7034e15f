// Package push delivers notifications to registered devices through FCM's
// HTTP endpoint. Without a server key the sender degrades to a logged no-op,
// so local setups work without any push configuration.
package push

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/store"
)

type Sender struct {
	http      *resty.Client
	endpoint  string
	serverKey string
	tokens    store.PushTokens
	log       zerolog.Logger
}

func NewSender(endpoint, serverKey string, tokens store.PushTokens) *Sender {
	return &Sender{
		http:      resty.New(),
		endpoint:  endpoint,
		serverKey: serverKey,
		tokens:    tokens,
		log:       logger.New("push"),
	}
}

// Configured reports whether a server key is present.
func (s *Sender) Configured() bool { return s.serverKey != "" }

type multicastRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    map[string]string `json:"notification"`
}

type multicastResponse struct {
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

// Send pushes title/body to every device the user registered. Tokens the
// upstream reports as dead are pruned from the registry.
func (s *Sender) Send(ctx context.Context, userID int64, title, body string) error {
	tokens, err := s.tokens.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.log.Debug().Int64("user_id", userID).Msg("no push tokens registered")
		return nil
	}
	if !s.Configured() {
		s.log.Info().Int64("user_id", userID).Msg("push not configured, skipping send")
		return nil
	}

	ids := make([]string, len(tokens))
	for i, t := range tokens {
		ids[i] = t.Token
	}

	var out multicastResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "key="+s.serverKey).
		SetHeader("Content-Type", "application/json").
		SetBody(multicastRequest{
			RegistrationIDs: ids,
			Notification:    map[string]string{"title": title, "body": body},
		}).
		SetResult(&out).
		Post(s.endpoint)
	if err != nil {
		return fmt.Errorf("%w: push send: %v", model.ErrUpstream, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: push send returned %d", model.ErrUpstream, resp.StatusCode())
	}

	if out.Failure > 0 {
		s.pruneDead(ctx, userID, ids, out)
	}
	return nil
}

func (s *Sender) pruneDead(ctx context.Context, userID int64, ids []string, out multicastResponse) {
	for i, res := range out.Results {
		if i >= len(ids) {
			break
		}
		switch res.Error {
		case "NotRegistered", "InvalidRegistration", "MismatchSenderId":
			s.log.Info().Str("token", ids[i]).Str("reason", res.Error).Msg("pruning dead push token")
			if err := s.tokens.Delete(ctx, userID, ids[i]); err != nil {
				s.log.Warn().Err(err).Msg("failed to prune push token")
			}
		}
	}
}
