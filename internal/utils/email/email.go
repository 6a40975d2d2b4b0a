package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// SendFunc delivers a composed message
type SendFunc func(e *email.Email) error

// Sender handles sending emails via SMTP
type Sender struct {
	from   string
	send   SendFunc
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	return NewSenderFunc(cfg.SenderEmail, func(e *email.Email) error {
		return e.Send(addr, auth)
	}, logger)
}

// NewSenderFunc creates a sender delivering through send
func NewSenderFunc(from string, send SendFunc, logger *logrus.Logger) *Sender {
	return &Sender{
		from:   from,
		send:   send,
		logger: logger,
	}
}

// SendTransferNotification sends a notice for a completed transfer between own cards
func (s *Sender) SendTransferNotification(to string, transfer models.Transfer) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = "Transfer Notification"

	body := fmt.Sprintf(
		"Dear customer,\n\n"+
			"A transfer of %s from card #%d to card #%d was completed.\n"+
			"Transfer number: %d\n"+
			"Transfer date: %s\n",
		transfer.Amount.StringFixed(models.MoneyScale), transfer.CardFromID, transfer.CardToID,
		transfer.ID, transfer.Date.Format("2006-01-02"),
	)
	body += "\nBest regards,\nBank Cards"
	e.Text = []byte(body)

	return s.deliver(e, to)
}

// SendCardBlockedNotification sends a notice that a card was blocked
func (s *Sender) SendCardBlockedNotification(to string, card models.Card, maskedNumber string) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = "Card Blocked"

	body := fmt.Sprintf(
		"Dear customer,\n\n"+
			"Your card #%d (%s) was blocked on %s.\n"+
			"A blocked card cannot send or receive transfers.\n",
		card.ID, maskedNumber, time.Now().Format("2006-01-02 15:04:05"),
	)
	body += "\nBest regards,\nBank Cards"
	e.Text = []byte(body)

	return s.deliver(e, to)
}

func (s *Sender) deliver(e *email.Email, to string) error {
	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// RecipientLookup resolves the email address of a user
type RecipientLookup interface {
	FindEmail(ctx context.Context, userID int64) (string, error)
}

// NumberDecoder turns a stored card number back into plaintext
type NumberDecoder interface {
	Decode(encoded string) (string, error)
}

// Notifier emails card owners about transfers and blocks. It satisfies service.Notifier.
type Notifier struct {
	sender  *Sender
	users   RecipientLookup
	numbers NumberDecoder
	mask    func(string) string
	logger  *logrus.Logger
}

// NewNotifier creates an email notifier
func NewNotifier(sender *Sender, users RecipientLookup, numbers NumberDecoder, mask func(string) string, logger *logrus.Logger) *Notifier {
	return &Notifier{sender: sender, users: users, numbers: numbers, mask: mask, logger: logger}
}

func (n *Notifier) TransferCompleted(ctx context.Context, transfer models.Transfer) {
	to, ok := n.recipient(ctx, transfer.OwnerID)
	if !ok {
		return
	}
	n.sender.SendTransferNotification(to, transfer)
}

func (n *Notifier) CardBlocked(ctx context.Context, card models.Card) {
	to, ok := n.recipient(ctx, card.OwnerID)
	if !ok {
		return
	}
	number, err := n.numbers.Decode(card.Number)
	if err != nil {
		n.logger.WithError(err).WithField("card_id", card.ID).Error("Failed to decode card number for notice")
		return
	}
	n.sender.SendCardBlockedNotification(to, card, n.mask(number))
}

func (n *Notifier) recipient(ctx context.Context, userID int64) (string, bool) {
	to, err := n.users.FindEmail(ctx, userID)
	if err != nil {
		n.logger.WithError(err).WithField("user_id", userID).Warn("No email recipient for notice")
		return "", false
	}
	return to, true
}
