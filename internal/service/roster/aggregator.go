// Package roster aggregates the signed-in user's session list: peer
// identity, latest-message preview, unread count and the peer's typing
// flag, served cache-aside from redis.
package roster

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/dao/redis"
	"github.com/Avatara12345/Chat-Application/internal/dto/respond"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/delivery"
	"github.com/Avatara12345/Chat-Application/pkg/chatkey"
	"github.com/Avatara12345/Chat-Application/pkg/constants"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

const cacheKeyPrefix = "roster_"

// Aggregator builds roster entries from the repositories and keeps a
// short-lived cached copy per user.
type Aggregator struct {
	repos *mysql.Repositories
	cache redis.AsyncCacheService
}

// NewAggregator builds the roster service.
func NewAggregator(repos *mysql.Repositories, cache redis.AsyncCacheService) *Aggregator {
	return &Aggregator{repos: repos, cache: cache}
}

// GetRoster returns the user's sessions, most recently active first.
// Sessions without any message yet are omitted. Cache-aside: a hit is
// served as-is, a miss rebuilds and refreshes the cache off the
// request path.
func (a *Aggregator) GetRoster(ctx context.Context, userId string) ([]respond.RosterEntryRespond, error) {
	key := cacheKeyPrefix + userId
	if cached, err := a.cache.Get(ctx, key); err == nil {
		var entries []respond.RosterEntryRespond
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return entries, nil
		}
		zap.L().Warn("corrupt roster cache entry, rebuilding",
			zap.String("user_id", userId))
	}

	sessions, err := a.repos.Session.FindByParticipant(userId)
	if err != nil {
		return nil, err
	}

	peerIds := make([]string, 0, len(sessions))
	for i := range sessions {
		if peerId, ok := chatkey.Other(sessions[i].Uuid, userId); ok {
			peerIds = append(peerIds, peerId)
		}
	}
	peerRows, err := a.repos.User.FindByUuids(peerIds)
	if err != nil {
		return nil, err
	}
	peers := make(map[string]*model.User, len(peerRows))
	for i := range peerRows {
		peers[peerRows[i].Uuid] = &peerRows[i]
	}

	entries := make([]respond.RosterEntryRespond, 0, len(sessions))
	for i := range sessions {
		peerId, ok := chatkey.Other(sessions[i].Uuid, userId)
		if !ok {
			continue
		}
		peer, ok := peers[peerId]
		if !ok {
			continue
		}
		entry, err := a.buildEntryWithPeer(ctx, userId, &sessions[i], peer)
		if err != nil {
			if errorx.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if entry.LastMessage == nil {
			continue
		}
		entries = append(entries, *entry)
	}

	a.cacheEntries(key, entries)
	return entries, nil
}

// Entry recomputes one roster entry after a mutation and invalidates
// the user's cached list. Implements chat.RosterProvider.
func (a *Aggregator) Entry(ctx context.Context, userId, sessionId string) (*respond.RosterEntryRespond, error) {
	session, err := a.repos.Session.FindByUuid(sessionId)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Delete(ctx, cacheKeyPrefix+userId); err != nil {
		zap.L().Warn("roster cache invalidation failed",
			zap.String("user_id", userId), zap.Error(err))
	}
	return a.buildEntry(ctx, userId, session)
}

// Invalidate drops the cached roster lists of the given users.
func (a *Aggregator) Invalidate(ctx context.Context, userIds ...string) {
	for _, uid := range userIds {
		if err := a.cache.Delete(ctx, cacheKeyPrefix+uid); err != nil {
			zap.L().Warn("roster cache invalidation failed",
				zap.String("user_id", uid), zap.Error(err))
		}
	}
}

func (a *Aggregator) buildEntry(ctx context.Context, userId string, session *model.Session) (*respond.RosterEntryRespond, error) {
	peerId, ok := chatkey.Other(session.Uuid, userId)
	if !ok {
		return nil, errorx.ErrForbidden
	}
	peer, err := a.repos.User.FindByUuid(peerId)
	if err != nil {
		return nil, err
	}
	return a.buildEntryWithPeer(ctx, userId, session, peer)
}

func (a *Aggregator) buildEntryWithPeer(ctx context.Context, userId string, session *model.Session, peer *model.User) (*respond.RosterEntryRespond, error) {
	entry := &respond.RosterEntryRespond{
		SessionId: session.Uuid,
		Peer: respond.RosterPeerRespond{
			Uuid:      peer.Uuid,
			Firstname: peer.Firstname,
			Lastname:  peer.Lastname,
			Status:    peer.Status,
		},
	}

	latest, err := a.repos.Message.FindLatestBySessionId(session.Uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return entry, nil
		}
		return nil, err
	}
	entry.LastMessage = &respond.RosterLastMessageRespond{
		Text:     previewText(latest),
		SenderId: latest.SenderId,
		Status:   delivery.Status(latest.Status).String(),
		SentAt:   latest.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	unread, err := a.repos.Message.CountUnread(session.Uuid, userId)
	if err != nil {
		return nil, err
	}
	entry.UnreadCount = unread

	typing, err := a.cache.IsTyping(ctx, session.Uuid, peer.Uuid)
	if err != nil {
		// Typing is cosmetic; a cache error must not break the roster.
		zap.L().Warn("typing flag read failed",
			zap.String("session_id", session.Uuid), zap.Error(err))
		typing = false
	}
	entry.Typing = typing
	return entry, nil
}

// previewText renders the one-line roster preview. A deleted latest
// message still anchors the session's position, shown as the
// placeholder.
func previewText(m *model.Message) string {
	if m.Deleted {
		return constants.DELETED_PLACEHOLDER
	}
	if m.Content != "" {
		return m.Content
	}
	if len(m.AttachmentType) >= 6 && m.AttachmentType[:6] == "image/" {
		return constants.PHOTO_PREVIEW
	}
	return constants.FILE_PREVIEW
}

func (a *Aggregator) cacheEntries(key string, entries []respond.RosterEntryRespond) {
	data, err := json.Marshal(entries)
	if err != nil {
		zap.L().Error("roster marshal failed", zap.Error(err))
		return
	}
	a.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TASK_TIMEOUT)
		defer cancel()
		if err := a.cache.Set(ctx, key, string(data), constants.ROSTER_CACHE_TTL); err != nil {
			zap.L().Error("roster cache write failed", zap.Error(err))
		}
	})
}
