// Package checkout drives the payment flow: token acquisition, precondition
// checks, nonce exchange, order submission, and cart clearing, in that
// order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/co-developer342/fyp-wednesday/internal/cart"
	"github.com/co-developer342/fyp-wednesday/internal/events"
	"github.com/co-developer342/fyp-wednesday/internal/middleware"
	"github.com/co-developer342/fyp-wednesday/internal/orders"
	"github.com/co-developer342/fyp-wednesday/internal/payment"
	"github.com/co-developer342/fyp-wednesday/internal/pricing"
)

// State of the checkout session.
type State string

const (
	StateIdle          State = "idle"
	StateTokenFetching State = "token_fetching"
	StateReady         State = "ready"
	StateSubmitting    State = "submitting"
	StateSucceeded     State = "succeeded"
)

// Precondition violations. These block the Submitting transition without any
// side effect; the rendering layer disables the control instead of showing
// an error dialog.
var (
	ErrNotIdle          = errors.New("token fetch already started")
	ErrNotReady         = errors.New("checkout is not ready")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("user is not authenticated")
	ErrNoAddress        = errors.New("user has no delivery address")
	ErrNoPaymentMethod  = errors.New("no payment method obtained")
)

// User is the identity the rendering layer asserts for the session.
type User struct {
	ID            string
	Authenticated bool
	Address       string
}

// Coordinator is the checkout state machine:
//
//	Idle -> TokenFetching -> Ready -> Submitting -> Succeeded
//
// A token fetch failure drops back to Idle with the error retained, so the
// rendering layer can offer a retry instead of a dead payment section. A
// submission failure surfaces a notification and returns the session to
// Ready with the cart untouched; retrying is an explicit user action, never
// automatic.
type Coordinator struct {
	cart      *cart.Store
	provider  payment.Provider
	orders    orders.Client
	publisher events.Publisher
	notifier  Notifier
	logger    *zap.Logger
	timeout   time.Duration

	mu          sync.Mutex
	state       State
	busy        bool
	clientToken string
	tokenErr    error
	lastErr     error
	orderID     string
}

type Config struct {
	Cart      *cart.Store
	Provider  payment.Provider
	Orders    orders.Client
	Publisher events.Publisher
	Notifier  Notifier
	Logger    *zap.Logger

	// Timeout bounds each outbound call. A hung provider must not leave
	// the coordinator stuck in TokenFetching or Submitting forever.
	Timeout time.Duration
}

func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewZapNotifier(cfg.Logger)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NopPublisher{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Coordinator{
		cart:      cfg.Cart,
		provider:  cfg.Provider,
		orders:    cfg.Orders,
		publisher: cfg.Publisher,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		timeout:   cfg.Timeout,
		state:     StateIdle,
	}
}

// Start fetches the payment client token. Callable from Idle only; after a
// failed fetch the coordinator is back in Idle and Start may be called
// again.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.busy || c.state != StateIdle {
		c.mu.Unlock()
		return ErrNotIdle
	}
	c.busy = true
	c.state = StateTokenFetching
	c.mu.Unlock()

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.provider.ClientToken(tctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if err != nil {
		c.tokenErr = err
		c.state = StateIdle
		c.logger.Warn("client token fetch failed", zap.Error(err))
		return fmt.Errorf("fetch client token: %w", err)
	}

	c.clientToken = token
	c.tokenErr = nil
	c.state = StateReady
	return nil
}

// Submit runs the payment. Preconditions are checked before any side
// effect; a violation blocks the transition and leaves the coordinator in
// Ready. Side effects are strictly ordered: the nonce is acquired before
// the order is submitted, and the cart is cleared only after the order
// service has accepted the order.
func (c *Coordinator) Submit(ctx context.Context, method payment.Method, user User) (*orders.Confirmation, error) {
	c.mu.Lock()
	if c.busy || c.state != StateReady {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	if c.cart.Len() == 0 {
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if !user.Authenticated {
		c.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	if user.Address == "" {
		c.mu.Unlock()
		return nil, ErrNoAddress
	}
	if method == nil {
		c.mu.Unlock()
		return nil, ErrNoPaymentMethod
	}
	c.busy = true
	c.state = StateSubmitting
	c.mu.Unlock()

	items := c.cart.Items()

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	nonce, err := method.RequestNonce(tctx)
	if err != nil {
		return nil, c.fail(fmt.Errorf("request payment nonce: %w", err))
	}

	conf, err := c.orders.Create(tctx, nonce, items)
	if err != nil {
		return nil, c.fail(fmt.Errorf("submit order: %w", err))
	}

	if err := c.cart.Clear(ctx); err != nil {
		// The order exists either way; an unclearable cart is a local
		// defect, not a checkout failure.
		c.logger.Error("clear cart after checkout", zap.Error(err))
	}

	c.publishCompleted(ctx, conf, items, user)

	c.mu.Lock()
	c.busy = false
	c.orderID = conf.OrderID
	c.lastErr = nil
	c.state = StateSucceeded
	c.mu.Unlock()

	c.notifier.Success("Payment completed successfully!")
	return conf, nil
}

// fail records err, surfaces the failure notification, and returns the
// session to Ready with the cart untouched.
func (c *Coordinator) fail(err error) error {
	c.mu.Lock()
	c.busy = false
	c.lastErr = err
	c.state = StateReady
	c.mu.Unlock()

	c.notifier.Error("Payment failed!")
	c.logger.Warn("checkout failed", zap.Error(err))
	return err
}

func (c *Coordinator) publishCompleted(ctx context.Context, conf *orders.Confirmation, items []cart.LineItem, user User) {
	ev := events.CheckoutCompleted{
		OrderID:     conf.OrderID,
		UserID:      user.ID,
		TotalAmount: pricing.CartTotal(items),
		Timestamp:   time.Now().UTC(),
	}
	for _, it := range items {
		ev.Items = append(ev.Items, events.CheckoutItem{
			LineID:    it.LineID,
			ProductID: it.ProductID,
			Price:     pricing.LineItemPrice(it),
		})
	}

	meta := events.EnvelopeMetadata{CorrelationID: middleware.GetCorrelationID(ctx)}
	if err := c.publisher.PublishCheckoutCompleted(ctx, ev, meta); err != nil {
		c.logger.Warn("publish checkout completed", zap.Error(err))
	}
}

// State reports the current machine state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ClientToken is empty until the token fetch has succeeded.
func (c *Coordinator) ClientToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientToken
}

// TokenError reports why the last token fetch failed, nil when it has not
// failed. Drives the retry affordance.
func (c *Coordinator) TokenError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenErr
}

// LastError reports the most recent submission failure, nil after success
// or before any attempt.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// OrderID is set once a checkout has succeeded; the rendering layer uses it
// to navigate to order history.
func (c *Coordinator) OrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderID
}
