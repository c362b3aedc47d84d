package notifications

import (
	"context"

	"github.com/rafa-porto/dev-connect/api/events"
	applog "github.com/rafa-porto/dev-connect/api/logger"
	"github.com/rafa-porto/dev-connect/api/models"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queueGroup = "notification-workers"

// Notifier turns engagement events into notification rows. It runs either as a NATS queue
// subscriber or, with no broker configured, as the service's in-process publisher.
type Notifier struct {
	db     *gorm.DB
	client *events.Client
	sub    *nats.Subscription
	log    *zap.Logger
}

func NewNotifier(db *gorm.DB, client *events.Client) *Notifier {
	return &Notifier{
		db:     db,
		client: client,
		log:    applog.Named("notifications"),
	}
}

// Start subscribes to every engagement subject in a shared queue group, so each event is
// handled by exactly one replica.
func (n *Notifier) Start() error {
	sub, err := n.client.QueueSubscribe(events.AllEngagement, queueGroup, n.onMessage)
	if err != nil {
		return err
	}
	n.sub = sub
	n.log.Info("notification subscriber started", zap.String("subject", events.AllEngagement))
	return nil
}

func (n *Notifier) Stop() error {
	if n.sub == nil {
		return nil
	}
	return n.sub.Unsubscribe()
}

func (n *Notifier) onMessage(msg *nats.Msg) {
	event, err := events.Decode(msg.Data)
	if err != nil {
		n.log.Warn("dropping undecodable event", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	if event.Subject == "" {
		event.Subject = msg.Subject
	}
	if err := n.Handle(context.Background(), event); err != nil {
		n.log.Error("failed to store notification",
			zap.String("subject", event.Subject),
			zap.String("actor_id", event.ActorID),
			zap.Error(err),
		)
	}
}

// Publish lets the notifier stand in for a broker: events are handled synchronously.
func (n *Notifier) Publish(ctx context.Context, event events.EngagementEvent) error {
	return n.Handle(ctx, event)
}

// Handle stores the notification an event implies, if any.
func (n *Notifier) Handle(ctx context.Context, event events.EngagementEvent) error {
	notification, ok := notificationFor(event)
	if !ok {
		return nil
	}
	if _, err := notification.SaveNotification(n.db.WithContext(ctx)); err != nil {
		return err
	}

	n.log.Debug("created notification",
		zap.String("type", string(notification.Type)),
		zap.String("user_id", notification.UserID),
	)
	return nil
}

// notificationFor maps an event to the notification its target should receive. Removals
// and self-directed actions notify nobody.
func notificationFor(event events.EngagementEvent) (*models.Notification, bool) {
	if event.TargetUserID == "" || event.TargetUserID == event.ActorID {
		return nil, false
	}

	var kind models.NotificationType
	switch event.Subject {
	case events.FollowCreated:
		kind = models.NotificationFollow
	case events.LikeCreated:
		kind = models.NotificationLike
	case events.MessageCreated:
		kind = models.NotificationMessage
	case events.PostCreated:
		switch {
		case event.ParentPostID != "":
			kind = models.NotificationReply
		case event.RepostID != "":
			kind = models.NotificationRepost
		default:
			return nil, false
		}
	default:
		return nil, false
	}

	notification := &models.Notification{
		UserID:    event.TargetUserID,
		ActorID:   event.ActorID,
		Type:      kind,
		CreatedAt: event.OccurredAt,
	}
	if event.PostID != "" && kind != models.NotificationFollow && kind != models.NotificationMessage {
		postID := event.PostID
		notification.PostID = &postID
	}
	return notification, true
}
