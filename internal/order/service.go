package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/bookhaven/bookshop/internal/auth"
	"github.com/bookhaven/bookshop/internal/cart"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidInput   = errors.New("invalid input")
	ErrProofRequired  = errors.New("proof of payment is required for this payment method")
	ErrReasonRequired = errors.New("a reason is required when declining an order")
	ErrTerminalStatus = errors.New("order is already in a terminal status")
	ErrOrderFailed    = errors.New("order failed, please try again")
)

// MethodCOD is cash on delivery; the only method that needs no proof upload,
// recorded with the same sentinel in the payments table.
const MethodCOD = "COD"

const paymentCompleted = "Completed"

type Service struct {
	orders Repository
	lines  cart.Repository
	proofs *ProofStore
}

func NewService(orders Repository, lines cart.Repository, proofs *ProofStore) *Service {
	return &Service{orders: orders, lines: lines, proofs: proofs}
}

// CheckoutRequest carries the shipping form and, for non-cash methods, the
// proof-of-payment upload.
type CheckoutRequest struct {
	Name          string
	Address       string
	PaymentMethod string
	ProofName     string
	Proof         io.Reader
}

// Checkout converts the user's cart into an order. The cart is re-read with
// live prices (client-submitted amounts are never trusted) and everything
// after validation runs in one repository transaction.
func (s *Service) Checkout(ctx context.Context, ident auth.Identity, req CheckoutRequest) (*Order, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	method := strings.TrimSpace(req.PaymentMethod)
	if name == "" || address == "" || method == "" {
		return nil, ErrInvalidInput
	}

	details, err := s.lines.ListDetails(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}
	if len(details) == 0 {
		return nil, ErrEmptyCart
	}

	totals, err := cart.ComputeTotals(details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}

	proof := MethodCOD
	if method != MethodCOD {
		if req.Proof == nil || req.ProofName == "" {
			return nil, ErrProofRequired
		}
		proof, err = s.proofs.Save(ident.UserID, req.ProofName, req.Proof)
		if err != nil {
			if errors.Is(err, ErrBadProofType) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrOrderFailed, err)
		}
	}

	o := &Order{
		ID:            uuid.NewString(),
		UserID:        ident.UserID,
		Name:          name,
		Address:       address,
		Total:         totals.Total.StringFixed(2),
		PaymentMethod: method,
		Status:        StatusPending,
	}
	items := make([]Item, 0, len(details))
	for _, d := range details {
		items = append(items, Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Price:     d.Price,
		})
	}
	pay := &Payment{
		ID:      uuid.NewString(),
		OrderID: o.ID,
		Amount:  o.Total,
		Method:  method,
		Proof:   proof,
		Status:  paymentCompleted,
	}

	if err := s.orders.Place(ctx, o, items, pay); err != nil {
		if errors.Is(err, ErrStockExceeded) {
			return nil, err
		}
		log.Printf("[order] place failed user=%s: %v", ident.UserID, err)
		return nil, ErrOrderFailed
	}
	return o, nil
}

// MyOrders lists the caller's orders, newest first.
func (s *Service) MyOrders(ctx context.Context, ident auth.Identity, limit, offset int) ([]Order, error) {
	return s.orders.ListByUser(ctx, ident.UserID, limit, offset)
}

// Get returns an order with its item snapshots; customers only see their own.
func (s *Service) Get(ctx context.Context, ident auth.Identity, orderID string) (*Order, []Item, error) {
	o, items, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !ident.IsAdmin() && o.UserID != ident.UserID {
		return nil, nil, ErrNotFound
	}
	return o, items, nil
}

// CustomerCancel cancels the caller's own Pending order and restores stock.
func (s *Service) CustomerCancel(ctx context.Context, ident auth.Identity, orderID, reason string) error {
	return s.orders.CancelByOwner(ctx, orderID, ident.UserID, strings.TrimSpace(reason))
}

// AdminList returns all orders joined with the customer name.
func (s *Service) AdminList(ctx context.Context, limit, offset int) ([]AdminOrder, error) {
	return s.orders.ListAll(ctx, limit, offset)
}

// AdminUpdate applies an admin status transition; only Pending orders can
// move. Declined stores the given reason; every other status clears it.
// Stock is untouched here: placement already committed the decrement, and
// only a customer cancel compensates.
func (s *Service) AdminUpdate(ctx context.Context, orderID string, status Status, reason string) error {
	switch status {
	case StatusConfirmed, StatusDeclined, StatusCancelled:
	default:
		return ErrInvalidInput
	}
	reason = strings.TrimSpace(reason)
	if status == StatusDeclined {
		if reason == "" {
			return ErrReasonRequired
		}
	} else {
		reason = ""
	}
	o, _, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status.Terminal() {
		return ErrTerminalStatus
	}
	return s.orders.UpdateStatus(ctx, orderID, status, reason)
}
