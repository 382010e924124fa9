package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zyra-ai/zyra/pkg/plan"
)

// EmailResolver looks up a merchant's billing email. Supplied by the
// caller since merchant records live outside this package.
type EmailResolver func(ctx context.Context, merchantID uuid.UUID) (string, error)

// Notifier implements billing.Notifier on top of an EmailSender.
type Notifier struct {
	sender       EmailSender
	resolveEmail EmailResolver
}

// New creates a Notifier. Panics if sender or resolver is nil.
func New(sender EmailSender, resolver EmailResolver) *Notifier {
	if sender == nil {
		panic("notify.New: EmailSender is required")
	}
	if resolver == nil {
		panic("notify.New: EmailResolver is required")
	}
	return &Notifier{sender: sender, resolveEmail: resolver}
}

// PlanChanged emails the merchant that their plan is now the given tier.
func (n *Notifier) PlanChanged(ctx context.Context, merchantID uuid.UUID, tier plan.Tier) error {
	email, err := n.resolveEmail(ctx, merchantID)
	if err != nil {
		return err
	}

	return n.sender.SendEmail(ctx, SendEmailParams{
		SendTo:  email,
		Subject: fmt.Sprintf("Your Zyra plan is now %s", tier),
		BodyHTML: fmt.Sprintf(
			"<p>Your Zyra AI subscription has been updated.</p>"+
				"<p>You are now on the <strong>%s</strong> plan. "+
				"New features unlock immediately; no action is needed.</p>", tier),
		Tag: "plan-changed",
	})
}

// PaymentFailed emails the merchant that a renewal payment failed.
func (n *Notifier) PaymentFailed(ctx context.Context, merchantID uuid.UUID) error {
	email, err := n.resolveEmail(ctx, merchantID)
	if err != nil {
		return err
	}

	return n.sender.SendEmail(ctx, SendEmailParams{
		SendTo:  email,
		Subject: "Action needed: your Zyra payment failed",
		BodyHTML: "<p>We could not process your latest Zyra AI subscription payment.</p>" +
			"<p>Please update your payment method from the billing portal to keep " +
			"your plan's features active.</p>",
		Tag: "payment-failed",
	})
}

// Noop is a billing.Notifier that does nothing. Used in development and
// wherever email delivery is disabled.
type Noop struct{}

func (Noop) PlanChanged(context.Context, uuid.UUID, plan.Tier) error { return nil }

func (Noop) PaymentFailed(context.Context, uuid.UUID) error { return nil }
