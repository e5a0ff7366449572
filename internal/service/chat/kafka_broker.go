package chat

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/config"
)

// KafkaBroker carries hub events through a Kafka topic so multiple
// nodes see the same stream. Events are keyed by session id to keep
// per-conversation ordering.
type KafkaBroker struct {
	hub    *Hub
	writer *kafka.Writer
	reader *kafka.Reader
	cancel context.CancelFunc
}

// NewKafkaBroker builds writer and reader from kafkaConfig.
func NewKafkaBroker(hub *Hub, cfg config.KafkaConfig) *KafkaBroker {
	timeout := time.Duration(cfg.Timeout) * time.Second
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.HostPort),
		Topic:                  cfg.ChatTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           timeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.HostPort},
		Topic:          cfg.ChatTopic,
		GroupID:        "letstalk_hub",
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: timeout,
	})
	return &KafkaBroker{hub: hub, writer: writer, reader: reader}
}

func (b *KafkaBroker) Publish(ctx context.Context, evt Event) error {
	data, err := evt.Encode()
	if err != nil {
		return err
	}
	return b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.SessionId),
		Value: data,
	})
}

// Start consumes the topic and feeds decoded events into the hub.
func (b *KafkaBroker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go func() {
		for {
			msg, err := b.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					return
				}
				zap.L().Error("kafka read failed", zap.Error(err))
				continue
			}
			evt, err := DecodeEvent(msg.Value)
			if err != nil {
				zap.L().Error("kafka event decode failed", zap.Error(err))
				continue
			}
			b.hub.Transmit <- evt
		}
	}()
}

func (b *KafkaBroker) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	if err := b.reader.Close(); err != nil {
		zap.L().Error("kafka reader close failed", zap.Error(err))
	}
	if err := b.writer.Close(); err != nil {
		zap.L().Error("kafka writer close failed", zap.Error(err))
	}
}
