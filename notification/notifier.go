package notification

import (
	"context"
	"log"
	"time"

	"room-booking/mailer"
	"room-booking/user"

	"github.com/google/uuid"
)

type Store interface {
	CreateNotification(ctx context.Context, n Notification) (*Notification, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Notifier records an in-app notification and e-mails the user. Every
// failure is logged and swallowed; nothing is retried.
type Notifier struct {
	store  Store
	users  UserLookup
	mailer mailer.Mailer
	now    func() time.Time
}

func NewNotifier(store Store, users UserLookup, m mailer.Mailer) *Notifier {
	return &Notifier{
		store:  store,
		users:  users,
		mailer: m,
		now:    time.Now,
	}
}

func (n *Notifier) Notify(ctx context.Context, msg Message) {
	_, err := n.store.CreateNotification(ctx, Notification{
		UserID:        msg.UserID,
		ReservationID: msg.ReservationID,
		Type:          msg.Type,
		Message:       msg.Text,
		CreatedAt:     n.now().UTC(),
	})
	if err != nil {
		log.Printf("notification: store %s for reservation %s: %v", msg.Type, msg.ReservationID, err)
	}

	u, err := n.users.GetUser(ctx, msg.UserID)
	if err != nil {
		log.Printf("notification: look up user %s: %v", msg.UserID, err)
		return
	}
	if u == nil || u.Email == "" {
		log.Printf("notification: user %s has no e-mail address", msg.UserID)
		return
	}

	if err := n.mailer.Send(ctx, u.Email, msg.Type.Subject(), mailBody(u.Name, msg.Text)); err != nil {
		log.Printf("notification: mail %s to %s: %v", msg.Type, u.Email, err)
	}
}

func mailBody(name, text string) string {
	return "Hello " + name + ",\n\n" + text + "\n\nBest regards,\nRoom Booking\n"
}
