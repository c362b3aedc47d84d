package events

import (
	"context"
	"encoding/json"
	"time"

	applog "github.com/rafa-porto/dev-connect/api/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type Config struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
	ClientName    string
}

type Client struct {
	conn *nats.Conn
}

func NewClient(cfg Config) (*Client, error) {
	log := applog.Get()
	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

func (c *Client) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	return c.conn.QueueSubscribe(subject, queue, handler)
}

func (c *Client) Close() {
	if c.conn != nil {
		_ = c.conn.Drain()
	}
}

type NatsPublisher struct {
	client *Client
}

func NewNatsPublisher(client *Client) *NatsPublisher {
	return &NatsPublisher{client: client}
}

func (p *NatsPublisher) Publish(ctx context.Context, event EngagementEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(event.Subject, data); err != nil {
		return err
	}

	applog.Get().Debug("published event",
		zap.String("subject", event.Subject),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

// Decode unmarshals a message published by NatsPublisher.
func Decode(data []byte) (EngagementEvent, error) {
	var event EngagementEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
