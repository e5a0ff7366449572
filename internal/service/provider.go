// Package service assembles the business services over the data
// access layer and the event hub.
package service

import (
	"time"

	"github.com/Avatara12345/Chat-Application/internal/config"
	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/dao/redis"
	"github.com/Avatara12345/Chat-Application/internal/service/auth"
	"github.com/Avatara12345/Chat-Application/internal/service/chat"
	"github.com/Avatara12345/Chat-Application/internal/service/message"
	"github.com/Avatara12345/Chat-Application/internal/service/roster"
	"github.com/Avatara12345/Chat-Application/internal/service/session"
	"github.com/Avatara12345/Chat-Application/internal/service/typing"
	"github.com/Avatara12345/Chat-Application/internal/service/user"
)

// Services is the handler layer's single dependency.
type Services struct {
	Auth    *auth.Service
	User    *user.Service
	Session *session.Service
	Message *message.Service
	Roster  *roster.Aggregator
	Typing  *typing.Controller
	Hub     *chat.Hub
	Broker  chat.Broker
}

// NewServices wires everything. The broker implementation follows
// kafkaConfig.messageMode: "kafka" for the shared topic, anything else
// for the in-process channel.
func NewServices(cfg *config.Config, repos *mysql.Repositories, cache redis.AsyncCacheService) *Services {
	hub := chat.NewHub()

	var broker chat.Broker
	if cfg.KafkaConfig.MessageMode == "kafka" {
		broker = chat.NewKafkaBroker(hub, cfg.KafkaConfig)
	} else {
		broker = chat.NewChannelBroker(hub)
	}

	typingCtl := typing.NewController(cache, broker)
	messageSvc := message.NewService(repos, broker, typingCtl)
	rosterAgg := roster.NewAggregator(repos, cache)
	userSvc := user.NewService(repos)

	hub.Wire(broker, messageSvc, typingCtl, rosterAgg, userSvc)

	refreshTTL := time.Duration(cfg.JWTConfig.RefreshTokenExpiry) * time.Hour
	return &Services{
		Auth:    auth.NewService(repos, cache, refreshTTL),
		User:    userSvc,
		Session: session.NewService(repos),
		Message: messageSvc,
		Roster:  rosterAgg,
		Typing:  typingCtl,
		Hub:     hub,
		Broker:  broker,
	}
}

// Start launches the hub loop and the broker consumer.
func (s *Services) Start() {
	s.Hub.Start()
	s.Broker.Start()
}

// Close shuts down event delivery.
func (s *Services) Close() {
	s.Broker.Close()
	s.Hub.Close()
}
