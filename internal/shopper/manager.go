package shopper

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/avelinelabs/giftnest-backend/internal/cart"
	"github.com/avelinelabs/giftnest-backend/internal/checkout"
	"github.com/avelinelabs/giftnest-backend/internal/orders"
	"github.com/avelinelabs/giftnest-backend/internal/wishlist"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/metrics"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
)

type orderCreator interface {
	Create(ctx context.Context, req orders.CreateOrderRequest) (string, error)
}

// Shopper bundles the per-session stores. Every request carrying the same
// session identifier sees the same cart, wishlist, and checkout.
type Shopper struct {
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Checkout *checkout.Orchestrator
}

// ManagerParams groups dependencies for a session manager.
type ManagerParams struct {
	Snapshots    snapshot.Store
	Orders       orderCreator
	Pricing      cart.Pricing
	Checkout     checkout.Config
	KeyNamespace string
	Logger       *logger.Logger             // optional
	Metrics      *metrics.StorefrontMetrics // optional
}

// Manager hands out session-scoped shoppers, building each lazily on
// first use. Stores hydrate from their snapshot keys, so a session
// survives process restarts as long as the backing store does.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Shopper

	snapshots snapshot.Store
	orders    orderCreator
	pricing   cart.Pricing
	checkout  checkout.Config
	namespace string
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics
}

// NewManager builds a session manager.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	namespace := strings.TrimSpace(params.KeyNamespace)
	if namespace == "" {
		namespace = "gn"
	}
	return &Manager{
		sessions:  map[string]*Shopper{},
		snapshots: params.Snapshots,
		orders:    params.Orders,
		pricing:   params.Pricing,
		checkout:  params.Checkout,
		namespace: namespace,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// ForSession returns the shopper for the given session, creating and
// hydrating it on first use.
func (m *Manager) ForSession(ctx context.Context, sessionID string) (*Shopper, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		return s, nil
	}

	cartStore, err := cart.NewStore(ctx, cart.StoreParams{
		Key:       m.cartKey(sessionID),
		Pricing:   m.pricing,
		Snapshots: m.snapshots,
		Logger:    m.logg,
		Metrics:   m.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("building cart store: %w", err)
	}

	wishlistStore, err := wishlist.NewStore(ctx, wishlist.StoreParams{
		Key:       m.wishlistKey(sessionID),
		Snapshots: m.snapshots,
		Logger:    m.logg,
	})
	if err != nil {
		return nil, fmt.Errorf("building wishlist store: %w", err)
	}

	orch, err := checkout.NewOrchestrator(checkout.OrchestratorParams{
		Cart:    cartStore,
		Orders:  m.orders,
		Config:  m.checkout,
		Logger:  m.logg,
		Metrics: m.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("building checkout orchestrator: %w", err)
	}

	s := &Shopper{Cart: cartStore, Wishlist: wishlistStore, Checkout: orch}
	m.sessions[sessionID] = s
	return s, nil
}

// SessionCount reports how many sessions have been materialized.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) cartKey(sessionID string) string {
	return fmt.Sprintf("%s:cart:%s", m.namespace, sessionID)
}

func (m *Manager) wishlistKey(sessionID string) string {
	return fmt.Sprintf("%s:wishlist:%s", m.namespace, sessionID)
}
