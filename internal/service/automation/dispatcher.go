package automation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/jwalitptl/studio-automations/internal/email"
	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/pkg/metrics"
)

// Delivery is one rendered notification addressed to a client.
type Delivery struct {
	Channel model.Channel
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Outcome is the final verdict for one delivery attempt.
type Outcome struct {
	Status model.ExecutionStatus
	Error  string
}

func (o Outcome) Sent() bool {
	return o.Status == model.ExecutionStatusSent
}

type DispatcherConfig struct {
	// RatePerSecond caps outbound calls. Zero disables throttling.
	RatePerSecond float64
	Burst         int
}

// Dispatcher hands deliveries to channel senders and classifies the result.
// It never retries.
type Dispatcher struct {
	email   email.Sender
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

func NewDispatcher(emailSender email.Sender, cfg DispatcherConfig, m *metrics.Metrics) *Dispatcher {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return &Dispatcher{
		email:   emailSender,
		limiter: limiter,
		metrics: m,
	}
}

// Supports reports whether a sender is registered for ch.
func (d *Dispatcher) Supports(ch model.Channel) bool {
	return ch == model.ChannelEmail && d.email != nil
}

// Dispatch delivers msg and maps the result onto a terminal status. A
// transport error and a provider refusal both yield failed, with different
// messages.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Delivery) Outcome {
	start := time.Now()
	outcome := d.dispatch(ctx, msg)

	if d.metrics != nil {
		d.metrics.DispatchLatency.WithLabelValues(string(msg.Channel)).Observe(time.Since(start).Seconds())
		d.metrics.Dispatches.WithLabelValues(string(msg.Channel), string(outcome.Status)).Inc()
	}
	return outcome
}

func (d *Dispatcher) dispatch(ctx context.Context, msg Delivery) Outcome {
	if !d.Supports(msg.Channel) {
		return failedOutcome(fmt.Sprintf("no sender registered for channel %s", msg.Channel))
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return failedOutcome(fmt.Sprintf("dispatch aborted: %v", err))
	}

	result, err := d.email.Send(ctx, email.Message{
		To:      msg.To,
		ToName:  msg.ToName,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return failedOutcome(fmt.Sprintf("failed to invoke %s channel: %v", msg.Channel, err))
	}
	if result == nil || !result.Success {
		reason := "channel reported failure"
		if result != nil && result.Error != "" {
			reason = result.Error
		}
		return failedOutcome(reason)
	}
	return Outcome{Status: model.ExecutionStatusSent}
}

func failedOutcome(reason string) Outcome {
	return Outcome{Status: model.ExecutionStatusFailed, Error: reason}
}
