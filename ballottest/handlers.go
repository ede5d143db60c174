package ballottest

import "github.com/resppiano/ballot"

// Handler is a mock implementation of the ballot.Handler interface that
// counts its calls.
type Handler struct {
	checkCall   int
	CheckResult ballot.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult ballot.DeliverResult
	DeliverErr    error
}

var _ ballot.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorator is a mock implementation of the ballot.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
type Decorator struct {
	checkCall int
	CheckErr  error

	deliverCall int
	DeliverErr  error
}

var _ ballot.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx, next ballot.Checker) (*ballot.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx, next ballot.Deliverer) (*ballot.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls the decorator before the handler.
func Decorate(h ballot.Handler, d ballot.Decorator) ballot.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn ballot.Handler
	dc ballot.Decorator
}

func (d *decoratedHandler) Check(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx ballot.Context, db ballot.KVStore, tx ballot.Tx) (*ballot.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
