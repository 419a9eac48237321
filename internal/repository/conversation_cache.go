package repository

import (
	"context"
	"sync"
	"time"

	"github.com/genie-legal/intake-backend/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// ConversationRepository defines the interface for conversation storage.
// Conversations are session-scoped and expire; there is no durable
// persistence behind this interface.
type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// Update loads the conversation, applies mutate under the
	// per-conversation lock and stores the result. Transitions are
	// serialized per conversation this way.
	Update(ctx context.Context, id string, mutate func(*entity.Conversation) error) (*entity.Conversation, error)
	Delete(ctx context.Context, id string) error
}

var _ ConversationRepository = &ConversationCache{}

// ConversationCache implements ConversationRepository on an expiring
// in-memory cache.
type ConversationCache struct {
	cache *gocache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewConversationCache(ttl, cleanupInterval time.Duration) *ConversationCache {
	c := &ConversationCache{
		cache: gocache.New(ttl, cleanupInterval),
		locks: make(map[string]*sync.Mutex),
	}
	// Drop the lock together with the expired conversation.
	c.cache.OnEvicted(func(id string, _ any) {
		c.mu.Lock()
		delete(c.locks, id)
		c.mu.Unlock()
	})
	return c
}

func (c *ConversationCache) Create(_ context.Context, conv *entity.Conversation) (*entity.Conversation, error) {
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	c.cache.SetDefault(conv.ID, cloneConversation(conv))
	return conv, nil
}

func (c *ConversationCache) GetByID(_ context.Context, id string) (*entity.Conversation, error) {
	lock := c.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	stored, ok := c.cache.Get(id)
	if !ok {
		return nil, entity.ErrConversationNotFound
	}

	return cloneConversation(stored.(*entity.Conversation)), nil
}

func (c *ConversationCache) Update(_ context.Context, id string, mutate func(*entity.Conversation) error) (*entity.Conversation, error) {
	lock := c.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	stored, ok := c.cache.Get(id)
	if !ok {
		return nil, entity.ErrConversationNotFound
	}

	conv := cloneConversation(stored.(*entity.Conversation))
	if err := mutate(conv); err != nil {
		return nil, err
	}
	conv.UpdatedAt = time.Now().UTC()

	// SetDefault also refreshes the TTL on every activity.
	c.cache.SetDefault(id, conv)
	return cloneConversation(conv), nil
}

func (c *ConversationCache) Delete(_ context.Context, id string) error {
	lock := c.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if _, ok := c.cache.Get(id); !ok {
		return entity.ErrConversationNotFound
	}
	c.cache.Delete(id)
	return nil
}

func (c *ConversationCache) lockFor(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	return lock
}

// cloneConversation deep-copies a conversation so callers never share
// maps or slices with the stored value.
func cloneConversation(src *entity.Conversation) *entity.Conversation {
	dst := *src

	dst.Messages = append([]entity.Message(nil), src.Messages...)
	dst.SuggestedDocs = append([]string(nil), src.SuggestedDocs...)
	dst.CreateDocs = append([]string(nil), src.CreateDocs...)
	dst.ExtraDocs = append([]string(nil), src.ExtraDocs...)
	dst.Templates = append([]entity.TemplateSelection(nil), src.Templates...)
	dst.BasedOnDocs = append([]string(nil), src.BasedOnDocs...)
	dst.Outcome.Documents = append([]string(nil), src.Outcome.Documents...)

	if src.SelectedDocs != nil {
		dst.SelectedDocs = make(map[string]bool, len(src.SelectedDocs))
		for k, v := range src.SelectedDocs {
			dst.SelectedDocs[k] = v
		}
	}
	if src.ClauseVisibility != nil {
		dst.ClauseVisibility = make(map[string]bool, len(src.ClauseVisibility))
		for k, v := range src.ClauseVisibility {
			dst.ClauseVisibility[k] = v
		}
	}
	if src.ClauseDetails != nil {
		dst.ClauseDetails = make(map[string]string, len(src.ClauseDetails))
		for k, v := range src.ClauseDetails {
			dst.ClauseDetails[k] = v
		}
	}
	if src.CustomClauses != nil {
		dst.CustomClauses = make(map[string][]entity.CustomClause, len(src.CustomClauses))
		for k, v := range src.CustomClauses {
			dst.CustomClauses[k] = append([]entity.CustomClause(nil), v...)
		}
	}

	return &dst
}
