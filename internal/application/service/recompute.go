package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/pos-multicurrency/internal/domain/aggregate"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/metrics"
)

// ChangeSet collects the orders and sessions whose aggregates are stale.
type ChangeSet struct {
	orders   map[uint]struct{}
	sessions map[uint]struct{}
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		orders:   map[uint]struct{}{},
		sessions: map[uint]struct{}{},
	}
}

// MarkOrder marks an order stale. Its session follows at flush time.
func (c *ChangeSet) MarkOrder(orderID uint) { c.orders[orderID] = struct{}{} }

// MarkSession marks a session stale.
func (c *ChangeSet) MarkSession(sessionID uint) { c.sessions[sessionID] = struct{}{} }

// PaymentCreated records a new payment line.
func (c *ChangeSet) PaymentCreated(p *entity.PosPayment) { c.MarkOrder(p.OrderID) }

// PaymentDeleted records a removed payment line.
func (c *ChangeSet) PaymentDeleted(p *entity.PosPayment) { c.MarkOrder(p.OrderID) }

// PaymentUpdated marks the owning order only when a field the aggregates
// read has changed.
func (c *ChangeSet) PaymentUpdated(before, after *entity.PosPayment) bool {
	if before.WatchedFieldsEqual(after) {
		return false
	}
	c.MarkOrder(after.OrderID)
	return true
}

// Empty reports whether nothing is stale.
func (c *ChangeSet) Empty() bool { return len(c.orders) == 0 && len(c.sessions) == 0 }

// Orders returns the stale order ids in ascending order.
func (c *ChangeSet) Orders() []uint { return sortedIDs(c.orders) }

// Sessions returns the stale session ids in ascending order.
func (c *ChangeSet) Sessions() []uint { return sortedIDs(c.sessions) }

func sortedIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Recomputer rewrites the cached aggregates of stale orders and sessions.
// Flush must run with the ctx of the write transaction so the new state is
// committed together with the payments it derives from.
type Recomputer struct {
	orderRepo   repository.OrderRepository
	sessionRepo repository.SessionRepository
	metrics     *metrics.RecomputeMetrics
	log         *logger.Logger
}

// NewRecomputer creates a new aggregate recomputer
func NewRecomputer(
	orderRepo repository.OrderRepository,
	sessionRepo repository.SessionRepository,
	m *metrics.RecomputeMetrics,
	log *logger.Logger,
) *Recomputer {
	return &Recomputer{orderRepo: orderRepo, sessionRepo: sessionRepo, metrics: m, log: log}
}

// Flush recomputes every stale order, then every session touched by them.
func (r *Recomputer) Flush(ctx context.Context, changes *ChangeSet) error {
	for _, orderID := range changes.Orders() {
		sessionID, err := r.recomputeOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if sessionID != 0 {
			changes.MarkSession(sessionID)
		}
	}

	for _, sessionID := range changes.Sessions() {
		if err := r.recomputeSession(ctx, sessionID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recomputer) recomputeOrder(ctx context.Context, orderID uint) (uint, error) {
	start := time.Now()
	order, err := r.orderRepo.GetWithPayments(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if order == nil {
		return 0, nil
	}

	aggregate.Order(order.CurrencyID, order.Payments).ApplyTo(order)
	if err := r.orderRepo.UpdateAggregate(ctx, order); err != nil {
		return 0, fmt.Errorf("store order %d aggregate: %w", orderID, err)
	}

	r.metrics.Inc(metrics.LevelOrder)
	r.metrics.ObserveDuration(metrics.LevelOrder, time.Since(start))
	r.log.Debug(r.log.WithField(ctx, "order_id", orderID), "order aggregate recomputed")
	return order.SessionID, nil
}

func (r *Recomputer) recomputeSession(ctx context.Context, sessionID uint) error {
	start := time.Now()
	session, err := r.sessionRepo.GetWithOrders(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if session == nil {
		return nil
	}

	aggregate.Session(session.Orders).ApplyTo(session)
	if err := r.sessionRepo.UpdateAggregate(ctx, session); err != nil {
		return fmt.Errorf("store session %d aggregate: %w", sessionID, err)
	}

	r.metrics.Inc(metrics.LevelSession)
	r.metrics.ObserveDuration(metrics.LevelSession, time.Since(start))
	r.log.Debug(r.log.WithField(ctx, "session_id", sessionID), "session aggregate recomputed")
	return nil
}
