// Package resolver turns a free-form user utterance into either a catalog
// action or a plain conversational reply, by prompting the language model
// with the tool catalog and a snapshot of the user's schedule.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/catalog"
	"github.com/swunglabs/swung/internal/llm"
	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/model"
	"github.com/swunglabs/swung/internal/timeutil"
)

const systemPromptTemplate = `You are SWUNG, a helpful voice scheduling assistant. You help users manage their events, to-dos, reminders, and alarms.

Current date/time: %s
Timezone: %s (UTC%s)

TERMINOLOGY RULES:
- "Events": Scheduled items with a specific date/time (e.g., "Meeting tomorrow", "Exam on Monday"). They go on the Calendar.
- "To-Dos": Checklist items things to be done (e.g., "Buy milk", "Clean room", "Make video"). They go on the Todo list. NEVER call them "tasks".
- "Alarms": Timed reminders.

When users say "Add to todo" or "I need to do X", create a TO-DO.
When users say "Schedule X" or "X at 5pm", create an EVENT.

Always confirm actions back to the user in a natural, conversational way.

CRITICAL DATE/TIME RULES:
- The current datetime provided above is local time in the timezone stated above.
- Events should be scheduled in the FUTURE. However, "future" means ANY time after the current moment - even 1 minute from now is valid.
- If the user says "in 5 minutes", "in 10 minutes", or any relative time, CALCULATE the exact datetime by adding to the current time.
- "Today" means the current date. "Tomorrow" means current date + 1 day.
- If no date is specified, use TOMORROW as the default (the next day from today).
- If no specific time is given, use reasonable defaults (9 AM for morning, 2 PM for afternoon, 7 PM for evening, 10 AM as general default).
- Always use ISO 8601 format for datetime: YYYY-MM-DDTHH:mm:ss (e.g., 2026-02-03T14:30:00).
- All datetimes you generate are local to the stated timezone (no timezone suffix needed, server handles it).

Be concise and friendly in your responses.`

// Completer is the slice of the llm client the resolver needs.
type Completer interface {
	Complete(ctx context.Context, req llm.ChatRequest) (*llm.Completion, error)
}

// ResolvedAction is a catalog action the model asked for, with its raw
// argument document.
type ResolvedAction struct {
	Type       catalog.Action  `json:"type"`
	Args       json.RawMessage `json:"args"`
	ToolCallID string          `json:"toolCallId,omitempty"`
}

// Outcome is the resolver's verdict on one utterance. Exactly one of the
// following holds: Action is set (do it), ErrorKind is set (resolution
// failed), or neither (plain conversational reply). Message is always set.
type Outcome struct {
	Message   string
	Action    *ResolvedAction
	ErrorKind string // "", ErrorNotAuthenticated, or ErrorAI
}

const (
	ErrorNotAuthenticated = "not_authenticated"
	ErrorAI               = "ai_error"
)

// Snapshot is the schedule context injected into the prompt so the model can
// reference existing rows by ID.
type Snapshot struct {
	Events []*model.Event
	Todos  []*model.Todo
}

type Resolver struct {
	llm         Completer
	clock       *timeutil.Clock
	zone        string
	eventLimit  int
	temperature float64
	maxTokens   int
	log         zerolog.Logger
}

// New builds a Resolver. zone names the fixed organizational timezone shown
// to the model; eventLimit caps how many upcoming events enter the prompt.
func New(completer Completer, clock *timeutil.Clock, zone string, eventLimit int) *Resolver {
	if eventLimit <= 0 {
		eventLimit = 20
	}
	return &Resolver{
		llm:         completer,
		clock:       clock,
		zone:        zone,
		eventLimit:  eventLimit,
		temperature: 0.7,
		maxTokens:   1024,
		log:         logger.New("resolver"),
	}
}

// Resolve prompts the model with the utterance and snapshot. Model failures
// are folded into the Outcome rather than returned, so a turn always yields
// something speakable.
func (r *Resolver) Resolve(ctx context.Context, userMessage string, snap Snapshot) *Outcome {
	req := llm.ChatRequest{
		Messages:    r.buildMessages(userMessage, snap),
		Tools:       catalog.Tools(),
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	}

	completion, err := r.llm.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, model.ErrNotAuthenticated) {
			return &Outcome{
				Message:   "Please login with GitHub first.",
				ErrorKind: ErrorNotAuthenticated,
			}
		}
		r.log.Error().Stack().Err(err).Msg("model resolution failed")
		return &Outcome{
			Message:   "Sorry, I had trouble understanding that. Could you try again?",
			ErrorKind: ErrorAI,
		}
	}

	if len(completion.ToolCalls) == 0 {
		return &Outcome{Message: completion.Content}
	}

	// Only the first call is honored; one utterance maps to one action.
	tc := completion.ToolCalls[0]
	action := catalog.Action(tc.Name)
	if !action.Valid() {
		r.log.Warn().Str("tool", tc.Name).Msg("model invoked unknown tool")
		return &Outcome{
			Message:   "Sorry, I had trouble understanding that. Could you try again?",
			ErrorKind: ErrorAI,
		}
	}

	args := json.RawMessage(tc.Arguments)
	if !json.Valid(args) || len(args) == 0 {
		// Malformed arguments degrade to an empty document; validation
		// downstream decides whether the action can still run.
		r.log.Warn().Str("tool", tc.Name).Msg("model emitted malformed tool arguments")
		args = json.RawMessage(`{}`)
	}

	message := strings.TrimSpace(completion.Content)
	if message == "" {
		message = catalog.FallbackAck(action, args)
	}

	return &Outcome{
		Message: message,
		Action:  &ResolvedAction{Type: action, Args: args, ToolCallID: tc.ID},
	}
}

func (r *Resolver) buildMessages(userMessage string, snap Snapshot) []llm.Message {
	offset := r.clock.Now().Format("-07:00")
	system := fmt.Sprintf(systemPromptTemplate, r.clock.PromptNow(), r.zone, offset)

	messages := []llm.Message{{Role: "system", Content: system}}

	if len(snap.Events) > 0 {
		events := snap.Events
		if len(events) > r.eventLimit {
			events = events[:r.eventLimit]
		}
		var b strings.Builder
		b.WriteString("Current upcoming events:")
		for _, e := range events {
			fmt.Fprintf(&b, "\n- ID:%d %q at %s", e.ID, e.Title, e.Datetime)
		}
		messages = append(messages, llm.Message{Role: "system", Content: b.String()})
	}

	if len(snap.Todos) > 0 {
		var b strings.Builder
		b.WriteString("Current active to-dos:")
		for _, td := range snap.Todos {
			priority := td.Priority
			if priority == "" {
				priority = model.PriorityMedium
			}
			fmt.Fprintf(&b, "\n- ID:%d %q (Priority: %s)", td.ID, td.Title, priority)
		}
		messages = append(messages, llm.Message{Role: "system", Content: b.String()})
	}

	return append(messages, llm.Message{Role: "user", Content: userMessage})
}
