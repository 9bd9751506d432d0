package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
	"github.com/shopspring/decimal"
)

// Item is a product the shopper saved for later. Wishlists are sets keyed
// by product ID: no quantity, no price aggregation.
type Item struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Image     string           `json:"image,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
}

// StoreParams groups dependencies for a wishlist store.
type StoreParams struct {
	Key       string
	Snapshots snapshot.Store // optional; nil disables persistence
	Logger    *logger.Logger // optional
}

// Store owns a shopper's wishlist. Same persistence pattern as the cart
// store: hydrate once, rewrite the full snapshot after every mutation.
type Store struct {
	mu        sync.Mutex
	key       string
	snapshots snapshot.Store
	logg      *logger.Logger

	items []Item

	nextSubID   uint64
	subscribers map[uint64]func()
}

// NewStore builds a wishlist store and hydrates it from its snapshot key.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Key == "" {
		return nil, fmt.Errorf("snapshot key required")
	}
	s := &Store{
		key:         params.Key,
		snapshots:   params.Snapshots,
		logg:        params.Logger,
		subscribers: map[uint64]func(){},
	}
	s.hydrate(ctx)
	return s, nil
}

// AddItem inserts the item unless it is already present.
func (s *Store) AddItem(ctx context.Context, item Item) {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		s.warn(ctx, "ignoring wishlist item without product id")
		return
	}

	s.mu.Lock()
	if s.containsLocked(item.ID) {
		s.mu.Unlock()
		return
	}
	if item.SalePrice != nil {
		sale := *item.SalePrice
		item.SalePrice = &sale
	}
	s.items = append(s.items, item)
	s.persistLocked(ctx)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	fanOut(subs)
}

// RemoveItem deletes the entry for the product ID, if present.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	removed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		s.persistLocked(ctx)
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if removed {
		fanOut(subs)
	}
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.persistLocked(ctx)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	fanOut(subs)
}

// Contains reports whether the product is on the wishlist.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(id)
}

// ItemCount returns the number of saved products.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Items returns a copy of the saved products.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if item.SalePrice != nil {
			sale := *item.SalePrice
			item.SalePrice = &sale
		}
		out = append(out, item)
	}
	return out
}

// Subscribe registers fn to run after every mutation and returns a cancel
// function.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) containsLocked(id string) bool {
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hydrate(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	data, err := s.snapshots.Load(ctx, s.key)
	if err != nil {
		s.warn(ctx, "loading wishlist snapshot failed, starting empty")
		return
	}
	if data == nil {
		return
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.warn(ctx, "discarding corrupt wishlist snapshot")
		return
	}
	kept := items[:0]
	seen := map[string]struct{}{}
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, item)
	}
	s.items = kept
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		s.warn(ctx, "serializing wishlist snapshot failed")
		return
	}
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		s.warn(ctx, "saving wishlist snapshot failed")
	}
}

func (s *Store) subscribersLocked() []func() {
	if len(s.subscribers) == 0 {
		return nil
	}
	subs := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (s *Store) warn(ctx context.Context, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "snapshot_key", s.key), msg)
}

func fanOut(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
