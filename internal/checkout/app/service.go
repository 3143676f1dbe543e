package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/engine"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/flow"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
	"github.com/jcmexdev/checkout-engine/internal/checkout/journal"
	"github.com/jcmexdev/checkout-engine/internal/pkg/metrics"
)

var (
	ErrSessionNotFound = errors.New("checkout: session not found")
	ErrNothingToPay    = errors.New("checkout: cart total is zero")
	ErrPaymentGateway  = errors.New("checkout: payment gateway")
)

// StorageFactory returns the session storage of one checkout session.
type StorageFactory func(sessionID string) ports.SessionStorage

// View is a copy of a session's state that callers may keep and modify.
type View struct {
	SessionID   string
	State       domain.State
	StepName    string
	Completed   bool
	URLRedirect string
}

type session struct {
	mu      sync.Mutex
	id      string
	engine  *engine.Engine
	storage ports.SessionStorage
	// closed is set under mu by Delete; a closed session accepts no more
	// transitions.
	closed bool
}

// Service owns the checkout sessions of this process. Each session has its
// own lock; every engine call for a session runs under it.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	storage StorageFactory
	gateway ports.PaymentGateway
	journal journal.Repository // nil-safe: journaling skipped if nil
}

// NewService wires the session registry. repo may be nil.
func NewService(storage StorageFactory, gateway ports.PaymentGateway, repo journal.Repository) *Service {
	return &Service{
		sessions: make(map[string]*session),
		storage:  storage,
		gateway:  gateway,
		journal:  repo,
	}
}

// Create starts a new checkout session for params.
func (s *Service) Create(ctx context.Context, params domain.InitParams) (View, error) {
	return s.Resume(ctx, uuid.NewString(), params)
}

// Resume returns the session with id, re-initializing it for params. A
// session that is not held in memory is rebuilt from its session storage.
func (s *Service) Resume(ctx context.Context, id string, params domain.InitParams) (View, error) {
	for {
		sess, ok := s.lookup(id)
		if !ok {
			var err error
			if sess, err = s.open(ctx, id, params); err != nil {
				return View{}, err
			}
		}

		sess.mu.Lock()
		if sess.closed {
			// Deleted while we waited; start over with a fresh session.
			sess.mu.Unlock()
			continue
		}
		view, err := sess.reinit(ctx, params)
		sess.mu.Unlock()
		return view, err
	}
}

// open builds a session from storage and registers it, unless a concurrent
// call registered the same id first.
func (s *Service) open(ctx context.Context, id string, params domain.InitParams) (*session, error) {
	store := s.storage(id)
	eng, err := engine.New(ctx, params,
		engine.WithStorage(store),
		engine.WithEffect(s.journalEffect(id)),
	)
	if err != nil {
		return nil, fmt.Errorf("checkout: start session %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	sess := &session{id: id, engine: eng, storage: store}
	s.sessions[id] = sess
	metrics.SessionOpened()

	slog.InfoContext(ctx, "checkout session ready", "session_id", id, "product_id", params.ProductID)
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()
	return sess.view()
}

// Delete clears the session storage and drops the session. Sessions not held
// in memory, e.g. after a restart, still have their storage cleared, so
// deleting is idempotent.
func (s *Service) Delete(ctx context.Context, id string) error {
	sess, err := s.acquire(id)
	if errors.Is(err, ErrSessionNotFound) {
		if err := s.storage(id).Clear(ctx); err != nil {
			return fmt.Errorf("checkout: clear session %s: %w", id, err)
		}
		slog.InfoContext(ctx, "checkout session storage discarded", "session_id", id)
		return nil
	}
	defer sess.mu.Unlock()

	if err := sess.storage.Clear(ctx); err != nil {
		return fmt.Errorf("checkout: clear session %s: %w", id, err)
	}

	sess.closed = true
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	metrics.SessionClosed()

	slog.InfoContext(ctx, "checkout session discarded", "session_id", id)
	return nil
}

// Apply dispatches a to the session. When a storage write fails the
// transition is still committed; the returned view reflects it alongside
// the error.
func (s *Service) Apply(ctx context.Context, id string, a domain.Action) (View, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()

	dispatchErr := sess.engine.Dispatch(ctx, a)
	if dispatchErr != nil {
		slog.ErrorContext(ctx, "checkout transition side effect failed",
			"session_id", id, "action", a.Name(), "error", dispatchErr)
	}

	view, err := sess.view()
	if err != nil {
		return View{}, err
	}
	return view, dispatchErr
}

// SetFlowMode switches the session flow. Entering the automatic-api flow with
// no customer captured yet seeds the placeholder customer.
func (s *Service) SetFlowMode(ctx context.Context, id string, mode domain.FlowMode) (View, error) {
	view, err := s.Apply(ctx, id, domain.SetFlowMode{Mode: mode})
	if err != nil || mode != domain.FlowAutomaticAPI {
		return view, err
	}
	if *view.State.ProductOrder.Customer != (domain.Customer{}) {
		return view, nil
	}
	return s.Apply(ctx, id, domain.SetCustomer{Customer: domain.AutomaticAPICustomer()})
}

// CreatePaymentIntent asks the gateway for a PIX intent covering the cart
// total and stores the returned handle as the order payment.
func (s *Service) CreatePaymentIntent(ctx context.Context, id string) (View, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return View{}, err
	}
	defer sess.mu.Unlock()

	order := sess.engine.Snapshot().ProductOrder
	amount := order.Cart.Total
	for _, b := range order.Cart.OrderBumps {
		amount += b.Price
	}
	if order.Cart.ShippingOption != nil {
		amount += order.Cart.ShippingOption.Price
	}
	if amount <= 0 {
		return View{}, ErrNothingToPay
	}

	payment, err := s.gateway.CreatePixIntent(ctx, ports.PixIntentRequest{
		SessionID: id,
		Amount:    amount,
		Customer:  *order.Customer,
	})
	if err != nil {
		return View{}, fmt.Errorf("%w: create pix intent for %s: %w", ErrPaymentGateway, id, err)
	}

	dispatchErr := sess.engine.SetPayment(ctx, payment)
	view, err := sess.view()
	if err != nil {
		return View{}, err
	}
	return view, dispatchErr
}

// LatestJournalEntry returns the last recorded transition of a session.
func (s *Service) LatestJournalEntry(ctx context.Context, id string) (*journal.Entry, error) {
	if s.journal == nil {
		return nil, fmt.Errorf("%w: journal disabled", journal.ErrNotFound)
	}
	return s.journal.GetLatest(ctx, id)
}

func (s *Service) lookup(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// acquire returns the live session with id with its lock held.
func (s *Service) acquire(id string) (*session, error) {
	sess, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// journalEffect appends every committed transition to the journal. Journal
// failures are logged and never surface to the buyer.
func (s *Service) journalEffect(id string) engine.Effect {
	return engine.EffectFunc(func(ctx context.Context, tr engine.Transition) error {
		if s.journal == nil {
			return nil
		}

		var payload string
		if key, value := engine.Changed(tr); key != "" {
			if b, err := json.Marshal(value); err == nil {
				payload = string(b)
			}
		}

		next := tr.Next
		entry := journal.NewEntry(ctx, id, tr.Action.Name(), next.ProductOrder.Step, string(next.Steps), payload)
		if err := s.journal.Save(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "failed to append checkout journal", "session_id", id, "action", tr.Action.Name(), "error", err)
		}
		return nil
	})
}

// reinit must be called with sess.mu held.
func (sess *session) reinit(ctx context.Context, params domain.InitParams) (View, error) {
	if _, err := sess.engine.Init(ctx, params); err != nil {
		return View{}, err
	}
	return sess.view()
}

// view must be called with sess.mu held.
func (sess *session) view() (View, error) {
	snap := sess.engine.Snapshot()

	var state domain.State
	if err := deepcopy.Copy(&state, &snap); err != nil {
		return View{}, fmt.Errorf("checkout: copy snapshot of %s: %w", sess.id, err)
	}

	return View{
		SessionID:   sess.id,
		State:       state,
		StepName:    flow.StepName(state.Steps, state.ProductOrder.Step),
		Completed:   flow.Completed(state.Steps, state.ProductOrder.Step),
		URLRedirect: sess.engine.URLRedirect(),
	}, nil
}
