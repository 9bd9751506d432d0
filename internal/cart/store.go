package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/metrics"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
	"github.com/shopspring/decimal"
)

// StoreParams groups dependencies for a cart store.
type StoreParams struct {
	// Key names the snapshot this store hydrates from and saves to.
	Key       string
	Pricing   Pricing
	Snapshots snapshot.Store             // optional; nil disables persistence
	Logger    *logger.Logger             // optional
	Metrics   *metrics.StorefrontMetrics // optional
}

// Store owns the list of line items a shopper intends to purchase. It is
// the sole mutator of that list; the persisted snapshot is a passive
// mirror, hydrated once at construction and rewritten after every
// mutation.
type Store struct {
	mu        sync.Mutex
	key       string
	pricing   Pricing
	snapshots snapshot.Store
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics

	items []LineItem

	nextSubID   uint64
	subscribers map[uint64]func()
}

// NewStore builds a cart store and hydrates it from its snapshot key. A
// missing or corrupt snapshot degrades to an empty cart, never an error.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Key == "" {
		return nil, fmt.Errorf("snapshot key required")
	}
	s := &Store{
		key:         params.Key,
		pricing:     params.Pricing,
		snapshots:   params.Snapshots,
		logg:        params.Logger,
		metrics:     params.Metrics,
		subscribers: map[uint64]func(){},
	}
	s.hydrate(ctx)
	return s, nil
}

// AddItem merges the item into an existing line with the same ID, or
// appends it. On merge only the quantity accumulates; the existing line's
// price, name, image, and options are locked in from the first add.
func (s *Store) AddItem(ctx context.Context, item LineItem) {
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		s.warn(ctx, "ignoring cart item without product id")
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item.clone())
	}
	s.persistLocked(ctx)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.metrics.ObserveCartOp("add_item")
	fanOut(subs)
}

// RemoveItem deletes the line with the given ID. Absent IDs are a no-op.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	removed := s.removeLocked(id)
	if removed {
		s.persistLocked(ctx)
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if removed {
		s.metrics.ObserveCartOp("remove_item")
		fanOut(subs)
	}
}

// UpdateQuantity sets the line's quantity to the given absolute value. A
// quantity of zero or less removes the line instead.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, id)
		return
	}

	s.mu.Lock()
	updated := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			updated = true
			break
		}
	}
	if updated {
		s.persistLocked(ctx)
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if updated {
		s.metrics.ObserveCartOp("update_quantity")
		fanOut(subs)
	}
}

// Clear empties the cart. Invoked by the checkout orchestrator after a
// successful order placement.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.persistLocked(ctx)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.metrics.ObserveCartOp("clear")
	fanOut(subs)
}

// Items returns a copy of the current line-item list.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

// ItemCount returns the sum of every line's quantity.
func (s *Store) ItemCount() int {
	return s.Totals().ItemCount
}

// Totals recomputes the derived totals from the current line items.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

// Snapshot returns the line items and totals as one consistent view, used
// to compose an order-submission payload.
func (s *Store) Snapshot() ([]LineItem, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked(), s.totalsLocked()
}

// Subscribe registers fn to run after every mutation and returns a cancel
// function. Subscribers are invoked outside the store lock.
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

func (s *Store) removeLocked(id string) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) itemsLocked() []LineItem {
	out := make([]LineItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.clone())
	}
	return out
}

func (s *Store) totalsLocked() Totals {
	count := 0
	subtotal := decimal.Zero
	for _, item := range s.items {
		count += item.Quantity
		subtotal = subtotal.Add(item.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shipping := decimal.Zero
	if len(s.items) > 0 {
		shipping = s.pricing.ShippingFlatFee
	}
	tax := subtotal.Mul(s.pricing.TaxRate).Round(2)

	return Totals{
		ItemCount: count,
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       tax,
		Total:     subtotal.Add(shipping).Add(tax),
	}
}

func (s *Store) hydrate(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	data, err := s.snapshots.Load(ctx, s.key)
	if err != nil {
		s.warn(ctx, "loading cart snapshot failed, starting empty")
		return
	}
	if data == nil {
		return
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.warn(ctx, "discarding corrupt cart snapshot")
		return
	}
	// Enforce the line invariants on hydrated data.
	kept := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" || item.Quantity < 1 {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
}

// persistLocked rewrites the full snapshot. Failures are logged and
// swallowed; persistence is best-effort.
func (s *Store) persistLocked(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		s.warn(ctx, "serializing cart snapshot failed")
		return
	}
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		s.warn(ctx, "saving cart snapshot failed")
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
