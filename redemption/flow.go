package redemption

import (
	"context"
	"errors"
	"strings"
	"time"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/dtos"
	"grabbi-storefront/metrics"
	"grabbi-storefront/models"
	"grabbi-storefront/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RedeemedPath is where the browser is sent after a successful redeem or gift.
const RedeemedPath = "/rewards/redeemed"

const DefaultRedirectDelay = 2 * time.Second

// API is the part of the backend the flows talk to.
type API interface {
	CheckUsername(ctx context.Context, token, username string) (int64, error)
	UpdateIdentity(ctx context.Context, token string, identity dtos.Identity) error
	CreateRedeemedReward(ctx context.Context, token string, record dtos.RedeemedReward) error
}

// Journal records attempts. It is optional.
type Journal interface {
	Start(ctx context.Context, attempt *models.GiftAttempt) error
	Update(ctx context.Context, attempt *models.GiftAttempt) error
}

type Flow struct {
	API           API
	Sessions      session.Store
	Journal       Journal
	Logger        logrus.FieldLogger
	RedirectDelay time.Duration
	Now           func() time.Time
}

// Result describes a completed attempt and where to navigate next.
type Result struct {
	AttemptID     uuid.UUID
	Record        dtos.RedeemedReward
	Balance       int
	Redirect      string
	RedirectAfter time.Duration
}

type attempt struct {
	sess        *session.Session
	sender      dtos.Identity
	reward      dtos.Reward
	recipient   string
	recipientID int64
	balance     int
	record      dtos.RedeemedReward
	row         *models.GiftAttempt
}

type step struct {
	name string
	run  func(ctx context.Context, a *attempt) error
}

// ValidateRecipient trims the username and rejects an empty one.
func ValidateRecipient(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", newError(KindEmptyRecipient, "validate", nil)
	}
	return username, nil
}

// Gift debits the sender's balance by the reward cost and records the reward
// as gifted to the customer named by recipient. Steps run strictly in order
// and stop at the first failure; nothing already done is undone.
func (f *Flow) Gift(ctx context.Context, sess *session.Session, reward dtos.Reward, recipient string) (*Result, error) {
	if sess == nil {
		return nil, newError(KindNoSession, "validate", nil)
	}
	a := f.newAttempt(sess, reward, models.AttemptKindGift)
	a.row.RecipientUsername = strings.TrimSpace(recipient)

	username, err := ValidateRecipient(recipient)
	if err == nil {
		err = checkBalance(a)
	}
	if err != nil {
		return nil, f.finish(ctx, a, err)
	}
	a.recipient = username

	return f.run(ctx, a, []step{
		{"resolve_recipient", f.resolveRecipient},
		{"debit_balance", f.debit},
		{"update_session", f.updateSession},
		{"create_record", f.createRecord},
	})
}

// Redeem debits the sender's balance and records the reward for the sender.
func (f *Flow) Redeem(ctx context.Context, sess *session.Session, reward dtos.Reward) (*Result, error) {
	if sess == nil {
		return nil, newError(KindNoSession, "validate", nil)
	}
	a := f.newAttempt(sess, reward, models.AttemptKindRedeem)

	err := checkBalance(a)
	if err == nil && !a.sender.Tier.AtLeast(reward.MinimumTier) {
		err = newError(KindTierTooLow, "validate", nil)
	}
	if err != nil {
		return nil, f.finish(ctx, a, err)
	}
	a.recipientID = a.sender.ID

	return f.run(ctx, a, []step{
		{"debit_balance", f.debit},
		{"update_session", f.updateSession},
		{"create_record", f.createRecord},
	})
}

func (f *Flow) newAttempt(sess *session.Session, reward dtos.Reward, kind string) *attempt {
	sender := sess.Identity()
	return &attempt{
		sess:   sess,
		sender: sender,
		reward: reward,
		row: &models.GiftAttempt{
			ID:            uuid.New(),
			Kind:          kind,
			SenderID:      sender.ID,
			RewardID:      reward.ID,
			PointsCost:    reward.PointsRequired,
			BalanceBefore: sender.Points,
			Status:        models.AttemptStarted,
		},
	}
}

func checkBalance(a *attempt) error {
	if a.reward.PointsRequired <= 0 {
		return newError(KindInvalidReward, "validate", nil)
	}
	if a.reward.PointsRequired > a.sender.Points {
		return newError(KindInsufficientPoints, "validate", nil)
	}
	return nil
}

func (f *Flow) run(ctx context.Context, a *attempt, steps []step) (*Result, error) {
	f.journalStart(ctx, a)
	ctx = apiclient.WithIdempotencyKey(ctx, a.row.ID.String())

	for _, s := range steps {
		f.logger().WithFields(logrus.Fields{"attempt_id": a.row.ID, "step": s.name}).Debug("Running reward step")
		if err := s.run(ctx, a); err != nil {
			return nil, f.finish(ctx, a, err)
		}
	}
	if err := f.finish(ctx, a, nil); err != nil {
		return nil, err
	}

	delay := f.RedirectDelay
	if delay <= 0 {
		delay = DefaultRedirectDelay
	}
	return &Result{
		AttemptID:     a.row.ID,
		Record:        a.record,
		Balance:       a.balance,
		Redirect:      RedeemedPath,
		RedirectAfter: delay,
	}, nil
}

func (f *Flow) resolveRecipient(ctx context.Context, a *attempt) error {
	id, err := f.API.CheckUsername(ctx, a.sess.Token(), a.recipient)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return newError(KindRecipientNotFound, "resolve_recipient", err)
		}
		return newError(KindRecipientLookup, "resolve_recipient", err)
	}
	if id <= 0 {
		return newError(KindRecipientNotFound, "resolve_recipient", nil)
	}
	a.recipientID = id
	a.row.RecipientID = id
	return nil
}

func (f *Flow) debit(ctx context.Context, a *attempt) error {
	updated := a.sender
	updated.Points = a.sender.Points - a.reward.PointsRequired
	if err := f.API.UpdateIdentity(ctx, a.sess.Token(), updated); err != nil {
		return newError(KindBalanceUpdateFailed, "debit_balance", err)
	}
	a.balance = updated.Points
	a.row.BalanceAfter = updated.Points
	a.row.Status = models.AttemptDebited
	return nil
}

// updateSession keeps the cached balance in step with the server. A failed
// save only affects the local display, so it does not stop the attempt.
func (f *Flow) updateSession(ctx context.Context, a *attempt) error {
	a.sess.SetPoints(a.balance)
	if f.Sessions == nil {
		return nil
	}
	if err := f.Sessions.Save(ctx, a.sess); err != nil {
		f.logger().WithError(err).WithField("attempt_id", a.row.ID).Warn("Failed to persist session after debit")
	}
	return nil
}

func (f *Flow) createRecord(ctx context.Context, a *attempt) error {
	record := dtos.RedeemedReward{
		Name:               a.reward.Name,
		Description:        a.reward.Description,
		PointsUsed:         a.reward.PointsRequired,
		Image:              a.reward.Image,
		Timestamp:          f.now(),
		CustomerID:         a.recipientID,
		OriginalCustomerID: a.sender.ID,
		IsGifted:           a.row.Kind == models.AttemptKindGift,
	}
	if err := f.API.CreateRedeemedReward(ctx, a.sess.Token(), record); err != nil {
		e := newError(KindRecordCreationFailed, "create_record", err)
		e.Partial = true
		return e
	}
	a.record = record
	return nil
}

// finish journals and reports the outcome. It returns err unchanged.
func (f *Flow) finish(ctx context.Context, a *attempt, err error) error {
	log := f.logger().WithFields(logrus.Fields{
		"attempt_id": a.row.ID,
		"flow":       a.row.Kind,
		"sender_id":  a.sender.ID,
		"reward_id":  a.reward.ID,
	})

	if err == nil {
		a.row.Status = models.AttemptCompleted
		metrics.ObserveFlow(a.row.Kind, string(models.AttemptCompleted))
		log.WithFields(logrus.Fields{
			"recipient_id": a.recipientID,
			"balance":      a.balance,
		}).Info("Reward attempt completed")
		f.journalUpdate(ctx, a)
		return nil
	}

	var rerr *Error
	if !errors.As(err, &rerr) {
		rerr = &Error{Kind: Kind("error"), Err: err}
	}
	a.row.ErrorKind = string(rerr.Kind)
	a.row.ErrorMessage = rerr.Error()
	metrics.ObserveFlow(a.row.Kind, string(rerr.Kind))

	switch {
	case rerr.Local():
		a.row.Status = models.AttemptRejected
		log.WithField("reason", rerr.Kind).Debug("Reward attempt rejected")
		f.journalStart(ctx, a)
		return err
	case rerr.Partial:
		a.row.Status = models.AttemptDebited
		log.WithError(rerr.Err).WithField("balance", a.balance).Warn("Balance debited but reward record was not created")
	default:
		a.row.Status = models.AttemptFailed
		log.WithError(rerr.Err).WithField("reason", rerr.Kind).Info("Reward attempt failed")
	}
	f.journalUpdate(ctx, a)
	return err
}

func (f *Flow) journalStart(ctx context.Context, a *attempt) {
	if f.Journal == nil {
		return
	}
	if err := f.Journal.Start(ctx, a.row); err != nil {
		f.logger().WithError(err).Error("Failed to journal reward attempt")
	}
}

func (f *Flow) journalUpdate(ctx context.Context, a *attempt) {
	if f.Journal == nil {
		return
	}
	if err := f.Journal.Update(ctx, a.row); err != nil {
		f.logger().WithError(err).Error("Failed to journal reward attempt")
	}
}

func (f *Flow) logger() logrus.FieldLogger {
	if f.Logger == nil {
		return logrus.StandardLogger()
	}
	return f.Logger
}

func (f *Flow) now() time.Time {
	if f.Now == nil {
		return time.Now().UTC()
	}
	return f.Now()
}
