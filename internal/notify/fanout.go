package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/model"
)

// PushSender is the slice of the push package the fanout needs.
type PushSender interface {
	Send(ctx context.Context, userID int64, title, body string) error
}

// Fanout delivers a triggered alarm to every channel. Channel failures are
// logged and swallowed: the scheduler marks the alarm triggered regardless.
type Fanout struct {
	hub  *Hub
	push PushSender
	log  zerolog.Logger
}

func NewFanout(hub *Hub, push PushSender) *Fanout {
	return &Fanout{hub: hub, push: push, log: logger.New("notify")}
}

// NotifyAlarm broadcasts the alarm to websocket clients and pushes it to the
// owner's devices.
func (f *Fanout) NotifyAlarm(ctx context.Context, alarm *model.Alarm) {
	f.hub.Broadcast(AlarmNotice{
		ID:       alarm.ID,
		Title:    alarm.Title,
		Message:  alarm.Message,
		CallUser: alarm.CallUser,
	})

	if f.push == nil {
		return
	}
	body := alarm.Title
	if alarm.Message != nil && *alarm.Message != "" {
		body = *alarm.Message
	}
	if err := f.push.Send(ctx, alarm.UserID, alarm.Title, body); err != nil {
		f.log.Warn().Err(err).Int64("alarm_id", alarm.ID).Msg("push delivery failed")
	}
}
