package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyra-ai/zyra/pkg/notify"
	"github.com/zyra-ai/zyra/pkg/plan"
)

type captureSender struct {
	sent []notify.SendEmailParams
	err  error
}

func (s *captureSender) SendEmail(_ context.Context, params notify.SendEmailParams) error {
	s.sent = append(s.sent, params)
	return s.err
}

func staticResolver(email string, err error) notify.EmailResolver {
	return func(context.Context, uuid.UUID) (string, error) { return email, err }
}

func TestNotifier_PlanChanged(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	n := notify.New(sender, staticResolver("shop@example.com", nil))

	require.NoError(t, n.PlanChanged(context.Background(), uuid.New(), plan.TierGrowth))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "shop@example.com", msg.SendTo)
	assert.Contains(t, msg.Subject, "growth")
	assert.Contains(t, msg.BodyHTML, "growth")
	assert.Equal(t, "plan-changed", msg.Tag)
}

func TestNotifier_PaymentFailed(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	n := notify.New(sender, staticResolver("shop@example.com", nil))

	require.NoError(t, n.PaymentFailed(context.Background(), uuid.New()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "payment-failed", sender.sent[0].Tag)
}

func TestNotifier_ResolverFailure(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	n := notify.New(sender, staticResolver("", errors.New("merchant not found")))

	assert.Error(t, n.PlanChanged(context.Background(), uuid.New(), plan.TierScale))
	assert.Empty(t, sender.sent)
}

func TestNewPostmarkSender_Validation(t *testing.T) {
	t.Parallel()

	_, err := notify.NewPostmarkSender(notify.Config{})
	require.ErrorIs(t, err, notify.ErrInvalidConfig)

	_, err = notify.NewPostmarkSender(notify.Config{
		PostmarkServerToken:  "token",
		PostmarkAccountToken: "token",
	})
	require.ErrorIs(t, err, notify.ErrInvalidConfig)
}
