// Package engine holds one checkout order and applies mutations to it.
//
// Every mutation goes through domain.Reduce, which is pure. Side effects
// (session storage mirroring, the journal, metrics) are Effects that run
// after the new state has been committed, in the order they were attached.
//
// An Engine is not safe for concurrent use; the owner serializes access.
package engine

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
	"github.com/jcmexdev/checkout-engine/internal/pkg/metrics"
)

// Transition describes one committed mutation.
type Transition struct {
	Action domain.Action
	Prev   domain.State
	Next   domain.State
}

// Effect reacts to a committed transition.
type Effect interface {
	Apply(ctx context.Context, tr Transition) error
}

type EffectFunc func(ctx context.Context, tr Transition) error

func (f EffectFunc) Apply(ctx context.Context, tr Transition) error { return f(ctx, tr) }

type Option func(*Engine)

// WithStorage mirrors mutated sub-objects into store and hydrates the order
// from it on initialization.
func WithStorage(store ports.SessionStorage) Option {
	return func(e *Engine) {
		e.store = store
		e.effects = append(e.effects, StorageMirror{Store: store})
	}
}

func WithEffect(eff Effect) Option {
	return func(e *Engine) { e.effects = append(e.effects, eff) }
}

type Engine struct {
	params  domain.InitParams
	state   domain.State
	store   ports.SessionStorage
	effects []Effect
	tracer  trace.Tracer
}

// New builds the initial order from params and, when storage is attached,
// overlays whatever sub-objects were already captured for the session.
func New(ctx context.Context, params domain.InitParams, opts ...Option) (*Engine, error) {
	e := &Engine{tracer: otel.Tracer("checkout/engine")}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.build(ctx, params); err != nil {
		return nil, err
	}
	return e, nil
}

// Init rebuilds the order when params differ from the ones the engine was
// last built with. Equal params are a no-op, whatever mutations happened
// since. It reports whether a rebuild took place.
func (e *Engine) Init(ctx context.Context, params domain.InitParams) (bool, error) {
	if params == e.params {
		return false, nil
	}
	if err := e.build(ctx, params); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) build(ctx context.Context, params domain.InitParams) error {
	state := domain.NewState(params)
	if e.store != nil {
		hydrated, err := Hydrate(ctx, e.store, state)
		if err != nil {
			return err
		}
		state = hydrated
	}
	e.params = params
	e.state = state
	return nil
}

// Snapshot returns the current state. The order is shared with the engine
// and must be treated as read-only.
func (e *Engine) Snapshot() domain.State {
	return e.state
}

// URLRedirect is where the host sends the buyer once the flow completes.
func (e *Engine) URLRedirect() string {
	return e.params.ProductURLRedirect
}

// Dispatch commits the transition for a and then runs every effect. The new
// state stays committed even when an effect fails; the effect errors are
// joined and returned.
func (e *Engine) Dispatch(ctx context.Context, a domain.Action) error {
	ctx, span := e.tracer.Start(ctx, "checkout."+a.Name())
	defer span.End()

	prev := e.state
	e.state = domain.Reduce(prev, a)
	metrics.RecordTransition(a.Name())

	span.SetAttributes(
		attribute.Int("checkout.step", e.state.ProductOrder.Step),
		attribute.String("checkout.flow_mode", string(e.state.Steps)),
	)

	tr := Transition{Action: a, Prev: prev, Next: e.state}
	var errs []error
	for _, eff := range e.effects {
		if err := eff.Apply(ctx, tr); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (e *Engine) SetFlowMode(ctx context.Context, mode domain.FlowMode) error {
	return e.Dispatch(ctx, domain.SetFlowMode{Mode: mode})
}

func (e *Engine) SetCustomer(ctx context.Context, c domain.Customer) error {
	return e.Dispatch(ctx, domain.SetCustomer{Customer: c})
}

func (e *Engine) SetAddress(ctx context.Context, a domain.Address) error {
	return e.Dispatch(ctx, domain.SetAddress{Address: a})
}

func (e *Engine) SetPayment(ctx context.Context, p domain.Payment) error {
	return e.Dispatch(ctx, domain.SetPayment{Payment: p})
}

func (e *Engine) SetCart(ctx context.Context, c domain.Cart) error {
	return e.Dispatch(ctx, domain.SetCart{Cart: c})
}

func (e *Engine) SetCartQuantity(ctx context.Context, n int) error {
	return e.Dispatch(ctx, domain.SetCartQuantity{Quantity: n})
}

func (e *Engine) AddOrderBump(ctx context.Context, b domain.OrderBump) error {
	return e.Dispatch(ctx, domain.AddOrderBump{Bump: b})
}

func (e *Engine) SetShippingOption(ctx context.Context, o domain.ShippingOption) error {
	return e.Dispatch(ctx, domain.SetShippingOption{Option: o})
}

func (e *Engine) NextStep(ctx context.Context) error {
	return e.Dispatch(ctx, domain.NextStep{})
}

func (e *Engine) PrevStep(ctx context.Context) error {
	return e.Dispatch(ctx, domain.PrevStep{})
}
