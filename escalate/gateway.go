// Package escalate encapsulates delegation of turn-handling to external
// channels: two independent intent-recognition bots and a warm transfer to a
// human operator. It owns the session's escalation indicator and its
// failure-recovery rules.
package escalate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/careline/logging"
	"github.com/hupe1980/careline/session"
	"github.com/hupe1980/careline/uisync"
)

// FallbackMessage is spoken in place of a bot answer when a bot call fails.
// It is intentionally generic; raw internal error text never reaches the caller.
const FallbackMessage = "I'm sorry, I wasn't able to reach that service just now. We can keep going, and you can always call the front desk directly for that question."

// BotClient is an external intent-recognition service. It accepts a free-text
// query plus a conversation identifier and returns response segments to be
// concatenated.
type BotClient interface {
	Query(ctx context.Context, query, conversationID string) ([]string, error)
}

// TransferClient is the external human-transfer mechanism. It dials the
// destination over the given trunk with a context summary and returns an
// identifier for the connected party.
type TransferClient interface {
	Transfer(ctx context.Context, destination, trunkID, summary string) (string, error)
}

// TransferError is the one escalation failure allowed to surface to the
// caller: a conversation must not silently continue pretending a human
// transfer happened.
type TransferError struct {
	Destination string
	Err         error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("human transfer to %s failed: %v", e.Destination, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransferError) Unwrap() error { return e.Err }

// Options configure a Gateway.
type Options struct {
	// BotTimeout bounds a single bot round-trip.
	BotTimeout time.Duration
	// TransferTimeout bounds the human transfer dial.
	TransferTimeout time.Duration
	// FallbackDestination is dialed when the caller profile carries no
	// preferred clinic line.
	FallbackDestination string
	// TrunkID is the routing/trunk identifier passed to the transfer mechanism.
	TrunkID string
	// Logger receives gateway events.
	Logger logging.Logger
}

// Gateway arbitrates all external escalation calls for one session.
type Gateway struct {
	hoursBot    BotClient
	benefitsBot BotClient
	transfer    TransferClient

	record    *session.Record
	publisher *uisync.Publisher

	botTimeout          time.Duration
	transferTimeout     time.Duration
	fallbackDestination string
	trunkID             string
	logger              logging.Logger
}

// NewGateway wires the external clients to the session record and UI
// publisher. Any client may be nil; calls through a nil client follow the
// same failure policy as an unreachable service.
func NewGateway(record *session.Record, publisher *uisync.Publisher, hoursBot, benefitsBot BotClient, transfer TransferClient, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		BotTimeout:      10 * time.Second,
		TransferTimeout: 30 * time.Second,
		TrunkID:         "trunk-main",
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{
		hoursBot:            hoursBot,
		benefitsBot:         benefitsBot,
		transfer:            transfer,
		record:              record,
		publisher:           publisher,
		botTimeout:          opts.BotTimeout,
		transferTimeout:     opts.TransferTimeout,
		fallbackDestination: opts.FallbackDestination,
		trunkID:             opts.TrunkID,
		logger:              opts.Logger,
	}
}

// QueryHoursBot delegates a call-center-hours question to the hours bot.
func (g *Gateway) QueryHoursBot(ctx context.Context, query string) string {
	return g.queryBot(ctx, session.EscalationHoursBot, g.hoursBot, query)
}

// QueryBenefitsBot delegates a benefits/coverage question to the benefits bot.
func (g *Gateway) QueryBenefitsBot(ctx context.Context, query string) string {
	return g.queryBot(ctx, session.EscalationBenefitsBot, g.benefitsBot, query)
}

// queryBot implements the bot delegation protocol: mark the channel and
// resync before issuing the outbound query so the UI reflects the external
// system answering for the whole round-trip. On success the channel stays set
// (it spans playback and is cleared by the next tool call or transition). On
// any failure the channel rolls back to none and the generic fallback string
// is returned; bot failures are never fatal.
func (g *Gateway) queryBot(ctx context.Context, channel session.Escalation, client BotClient, query string) string {
	g.record.SetEscalation(channel)
	g.publisher.Publish(ctx, g.record.Snapshot())

	segments, err := g.doQuery(ctx, client, query)
	if err != nil || len(segments) == 0 {
		if err != nil {
			g.logger.Warn("escalate.bot.failed", "channel", string(channel), "error", err.Error())
		} else {
			g.logger.Warn("escalate.bot.empty_response", "channel", string(channel))
		}
		g.record.ClearEscalation()
		g.publisher.Publish(ctx, g.record.Snapshot())
		return FallbackMessage
	}

	g.logger.Info("escalate.bot.answered", "channel", string(channel), "segments", len(segments))
	return strings.Join(segments, " ")
}

func (g *Gateway) doQuery(ctx context.Context, client BotClient, query string) ([]string, error) {
	if client == nil {
		return nil, fmt.Errorf("bot client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, g.botTimeout)
	defer cancel()
	return client.Query(ctx, query, g.record.ID())
}

// TransferToHuman performs the warm hand-off: destination resolved from the
// caller profile with the configured fallback, context summary synthesized
// from session state. On failure the escalation indicator rolls back and a
// *TransferError is returned for the conversation layer to convert into a
// spoken apology.
func (g *Gateway) TransferToHuman(ctx context.Context, reason string) (string, error) {
	destination := g.record.Profile().PreferredClinicLine
	if destination == "" {
		destination = g.fallbackDestination
	}

	g.record.SetEscalation(session.EscalationHuman)
	g.publisher.Publish(ctx, g.record.Snapshot())

	summary := g.buildSummary(reason)

	if g.transfer == nil {
		err := fmt.Errorf("transfer client not configured")
		g.rollbackTransfer(ctx, destination, err)
		return "", &TransferError{Destination: destination, Err: err}
	}

	dialCtx, cancel := context.WithTimeout(ctx, g.transferTimeout)
	defer cancel()

	participantID, err := g.transfer.Transfer(dialCtx, destination, g.trunkID, summary)
	if err != nil {
		g.rollbackTransfer(ctx, destination, err)
		return "", &TransferError{Destination: destination, Err: err}
	}

	g.logger.Info("escalate.transfer.connected", "destination", destination, "participant_id", participantID)
	return participantID, nil
}

func (g *Gateway) rollbackTransfer(ctx context.Context, destination string, err error) {
	g.logger.Error("escalate.transfer.failed", "destination", destination, "error", err.Error())
	g.record.ClearEscalation()
	g.publisher.Publish(ctx, g.record.Snapshot())
}

// buildSummary synthesizes the warm-transfer context: who, why, current
// stage, outstanding concerns.
func (g *Gateway) buildSummary(reason string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Caller: %s.", g.record.Profile().Name)
	if reason != "" {
		fmt.Fprintf(&b, " Reason: %s.", reason)
	}
	fmt.Fprintf(&b, " Current stage: %s.", g.record.Stage())
	if concerns := g.record.Concerns(); len(concerns) > 0 {
		fmt.Fprintf(&b, " Outstanding concerns: %s.", strings.Join(concerns, "; "))
	}
	return b.String()
}
