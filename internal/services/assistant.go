// Package services holds the application services between the HTTP boundary
// and the domain packages: the assistant turn pipeline and the plain
// schedule operations the UI calls directly.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/catalog"
	"github.com/swunglabs/swung/internal/executor"
	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/resolver"
	"github.com/swunglabs/swung/internal/store"
	"github.com/swunglabs/swung/internal/timeutil"
)

// Resolver resolves one utterance into an outcome.
type Resolver interface {
	Resolve(ctx context.Context, userMessage string, snap resolver.Snapshot) *resolver.Outcome
}

// Executor runs a resolved catalog action.
type Executor interface {
	Execute(ctx context.Context, userID int64, action catalog.Action, args json.RawMessage) (*executor.Result, error)
}

// TurnResult is what one processed utterance produces.
type TurnResult struct {
	Success      bool                     `json:"success"`
	Message      string                   `json:"message"`
	ErrorKind    string                   `json:"error,omitempty"`
	Action       *resolver.ResolvedAction `json:"action,omitempty"`
	ActionResult *executor.Result         `json:"actionResult,omitempty"`
}

// DefaultHistoryLimit bounds chat history reads when the caller doesn't ask
// for a specific window.
const DefaultHistoryLimit = 50

const internalErrorMessage = "Sorry, I encountered an error processing your request."

// AssistantService owns the turn pipeline: persist the utterance, snapshot
// the schedule, resolve, execute, persist the reply.
type AssistantService struct {
	store      store.Store
	resolver   Resolver
	executor   Executor
	clock      *timeutil.Clock
	eventLimit int
	log        zerolog.Logger
}

func NewAssistantService(st store.Store, res Resolver, exec Executor, clock *timeutil.Clock, eventLimit int) *AssistantService {
	if eventLimit <= 0 {
		eventLimit = 20
	}
	return &AssistantService{
		store:      st,
		resolver:   res,
		executor:   exec,
		clock:      clock,
		eventLimit: eventLimit,
		log:        logger.New("assistant"),
	}
}

// ProcessTurn runs one utterance through the pipeline. Context gathering
// degrades to an empty snapshot; execution faults persist an apology before
// surfacing the error.
func (s *AssistantService) ProcessTurn(ctx context.Context, userID int64, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text provided", model.ErrValidation)
	}

	if _, err := s.store.Chats().Append(ctx, &model.ChatMessage{UserID: userID, Role: "user", Content: text}); err != nil {
		return nil, err
	}

	outcome := s.resolver.Resolve(ctx, text, s.snapshot(ctx, userID))

	if outcome.ErrorKind != "" {
		s.saveAssistantMessage(ctx, userID, outcome.Message, nil, nil)
		return &TurnResult{Success: false, Message: outcome.Message, ErrorKind: outcome.ErrorKind}, nil
	}

	if outcome.Action == nil {
		s.saveAssistantMessage(ctx, userID, outcome.Message, nil, nil)
		return &TurnResult{Success: true, Message: outcome.Message}, nil
	}

	result, err := s.executor.Execute(ctx, userID, outcome.Action.Type, outcome.Action.Args)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("action", string(outcome.Action.Type)).Msg("action execution failed")
		s.saveAssistantMessage(ctx, userID, internalErrorMessage, nil, nil)
		return nil, err
	}

	// The executor's confirmation wins over the model's phrasing when set.
	message := outcome.Message
	if result.Message != "" {
		message = result.Message
	}

	s.saveAssistantMessage(ctx, userID, message, outcome.Action, result)

	return &TurnResult{
		Success:      true,
		Message:      message,
		Action:       outcome.Action,
		ActionResult: result,
	}, nil
}

// snapshot gathers prompt context. Failures here must never sink a turn.
func (s *AssistantService) snapshot(ctx context.Context, userID int64) resolver.Snapshot {
	var snap resolver.Snapshot

	events, err := s.store.Events().List(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch context events")
	} else {
		// Keep events from the last day onward so "move my meeting" still
		// resolves shortly after it started.
		cutoff := s.clock.Format(s.clock.Now().Add(-24 * time.Hour))
		for _, e := range events {
			if e.Datetime > cutoff {
				snap.Events = append(snap.Events, e)
			}
			if len(snap.Events) == s.eventLimit {
				break
			}
		}
	}

	todos, err := s.store.Todos().List(ctx, userID, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch context to-dos")
	} else {
		snap.Todos = todos
	}
	return snap
}

func (s *AssistantService) saveAssistantMessage(ctx context.Context, userID int64, message string, action *resolver.ResolvedAction, result *executor.Result) {
	msg := &model.ChatMessage{UserID: userID, Role: "assistant", Content: message}
	if action != nil {
		actionType := string(action.Type)
		msg.ActionType = &actionType
		payload := struct {
			Type   catalog.Action   `json:"type"`
			Args   json.RawMessage  `json:"args"`
			Result *executor.Result `json:"result,omitempty"`
		}{Type: action.Type, Args: action.Args, Result: result}
		if raw, err := json.Marshal(payload); err == nil {
			msg.ActionData = raw
		}
	}
	if _, err := s.store.Chats().Append(ctx, msg); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist assistant message")
	}
}

// History returns the latest window of the conversation, oldest first.
func (s *AssistantService) History(ctx context.Context, userID int64, limit, offset int) ([]*model.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.Chats().History(ctx, userID, limit, offset)
}

// ClearHistory wipes the user's conversation log.
func (s *AssistantService) ClearHistory(ctx context.Context, userID int64) error {
	return s.store.Chats().Clear(ctx, userID)
}
