package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookshop/internal/auth"
	"github.com/bookhaven/bookshop/internal/cart"
)

// stubOrders records the last Place call and can fail on demand.
type stubOrders struct {
	placeErr   error
	lastOrder  *Order
	lastItems  []Item
	lastPay    *Payment
	lastStatus Status
	lastReason string
	cancelArgs []string
}

func (s *stubOrders) Place(_ context.Context, o *Order, items []Item, pay *Payment) error {
	if s.placeErr != nil {
		return s.placeErr
	}
	cp := *o
	s.lastOrder = &cp
	s.lastItems = append([]Item(nil), items...)
	pc := *pay
	s.lastPay = &pc
	return nil
}

func (s *stubOrders) GetByID(_ context.Context, id string) (*Order, []Item, error) {
	if s.lastOrder == nil || s.lastOrder.ID != id {
		return nil, nil, ErrNotFound
	}
	return s.lastOrder, s.lastItems, nil
}

func (s *stubOrders) GetItems(_ context.Context, orderID string) ([]Item, error) {
	return s.lastItems, nil
}

func (s *stubOrders) ListByUser(_ context.Context, userID string, _, _ int) ([]Order, error) {
	if s.lastOrder != nil && s.lastOrder.UserID == userID {
		return []Order{*s.lastOrder}, nil
	}
	return []Order{}, nil
}

func (s *stubOrders) ListAll(context.Context, int, int) ([]AdminOrder, error) {
	return nil, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, id string, status Status, reason string) error {
	s.lastStatus = status
	s.lastReason = reason
	return nil
}

func (s *stubOrders) CancelByOwner(_ context.Context, orderID, userID, reason string) error {
	s.cancelArgs = []string{orderID, userID, reason}
	return nil
}

// stubLines serves a fixed set of joined cart lines.
type stubLines struct {
	details []cart.LineDetail
}

func (s *stubLines) GetLine(context.Context, string, string) (*cart.Line, error) {
	return nil, cart.ErrNotFound
}
func (s *stubLines) Insert(context.Context, *cart.Line) error                 { return nil }
func (s *stubLines) SetQuantity(context.Context, string, string, int) error   { return nil }
func (s *stubLines) GetDetail(context.Context, string, string) (*cart.LineDetail, error) {
	return nil, cart.ErrNotFound
}
func (s *stubLines) Delete(context.Context, string, string) error           { return nil }
func (s *stubLines) DeleteMany(context.Context, string, []string) error     { return nil }
func (s *stubLines) ListDetails(context.Context, string) ([]cart.LineDetail, error) {
	return s.details, nil
}
func (s *stubLines) CountItems(context.Context, string) (int, error) { return 0, nil }

func customer() auth.Identity {
	return auth.Identity{UserID: uuid.NewString(), Role: auth.RoleCustomer, Name: "Test Customer"}
}

func codRequest() CheckoutRequest {
	return CheckoutRequest{Name: "Juana Reyes", Address: "12 Mabini St", PaymentMethod: MethodCOD}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc := NewService(&stubOrders{}, &stubLines{}, NewProofStore(t.TempDir()))

	_, err := svc.Checkout(context.Background(), customer(), codRequest())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_MissingShippingFields(t *testing.T) {
	svc := NewService(&stubOrders{}, &stubLines{}, NewProofStore(t.TempDir()))

	for _, req := range []CheckoutRequest{
		{Address: "x", PaymentMethod: MethodCOD},
		{Name: "x", PaymentMethod: MethodCOD},
		{Name: "x", Address: "x"},
	} {
		_, err := svc.Checkout(context.Background(), customer(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestCheckout_CODHappyPath(t *testing.T) {
	orders := &stubOrders{}
	lines := &stubLines{details: []cart.LineDetail{
		{ID: "l1", ProductID: "p1", Price: "200.00", Quantity: 2},
		{ID: "l2", ProductID: "p2", Price: "100.00", Quantity: 1},
	}}
	svc := NewService(orders, lines, NewProofStore(t.TempDir()))
	ident := customer()

	o, err := svc.Checkout(context.Background(), ident, codRequest())
	require.NoError(t, err)

	// subtotal 500 + flat 50 shipping
	assert.Equal(t, "550.00", o.Total)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, ident.UserID, o.UserID)

	require.Len(t, orders.lastItems, 2)
	byProduct := map[string]Item{}
	for _, it := range orders.lastItems {
		byProduct[it.ProductID] = it
		assert.Equal(t, o.ID, it.OrderID)
	}
	assert.Equal(t, "200.00", byProduct["p1"].Price)
	assert.Equal(t, 2, byProduct["p1"].Quantity)
	assert.Equal(t, "100.00", byProduct["p2"].Price)

	require.NotNil(t, orders.lastPay)
	assert.Equal(t, "550.00", orders.lastPay.Amount)
	assert.Equal(t, MethodCOD, orders.lastPay.Proof)
	assert.Equal(t, paymentCompleted, orders.lastPay.Status)
}

func TestCheckout_NonCashRequiresProof(t *testing.T) {
	lines := &stubLines{details: []cart.LineDetail{{ID: "l1", ProductID: "p1", Price: "100.00", Quantity: 1}}}
	svc := NewService(&stubOrders{}, lines, NewProofStore(t.TempDir()))

	req := codRequest()
	req.PaymentMethod = "Online"
	_, err := svc.Checkout(context.Background(), customer(), req)
	require.ErrorIs(t, err, ErrProofRequired)
}

func TestCheckout_NonCashStoresProof(t *testing.T) {
	orders := &stubOrders{}
	lines := &stubLines{details: []cart.LineDetail{{ID: "l1", ProductID: "p1", Price: "100.00", Quantity: 1}}}
	svc := NewService(orders, lines, NewProofStore(t.TempDir()))
	ident := customer()

	req := codRequest()
	req.PaymentMethod = "Online"
	req.ProofName = "receipt.png"
	req.Proof = strings.NewReader("fake image bytes")

	_, err := svc.Checkout(context.Background(), ident, req)
	require.NoError(t, err)

	require.NotNil(t, orders.lastPay)
	assert.True(t, strings.HasPrefix(orders.lastPay.Proof, "pay_"+ident.UserID+"_"))
	assert.True(t, strings.HasSuffix(orders.lastPay.Proof, "_receipt.png"))
}

func TestCheckout_StockRaceSurfacesAsStockExceeded(t *testing.T) {
	orders := &stubOrders{placeErr: ErrStockExceeded}
	lines := &stubLines{details: []cart.LineDetail{{ID: "l1", ProductID: "p1", Price: "100.00", Quantity: 1}}}
	svc := NewService(orders, lines, NewProofStore(t.TempDir()))

	_, err := svc.Checkout(context.Background(), customer(), codRequest())
	require.ErrorIs(t, err, ErrStockExceeded)
}

func TestCheckout_UnexpectedFailureIsGeneric(t *testing.T) {
	orders := &stubOrders{placeErr: errors.New("connection reset")}
	lines := &stubLines{details: []cart.LineDetail{{ID: "l1", ProductID: "p1", Price: "100.00", Quantity: 1}}}
	svc := NewService(orders, lines, NewProofStore(t.TempDir()))

	_, err := svc.Checkout(context.Background(), customer(), codRequest())
	require.ErrorIs(t, err, ErrOrderFailed)
	assert.NotContains(t, err.Error(), "connection reset")
}

func TestAdminUpdate(t *testing.T) {
	orders := &stubOrders{lastOrder: &Order{ID: "o1", Status: StatusPending}}
	svc := NewService(orders, &stubLines{}, NewProofStore(t.TempDir()))
	ctx := context.Background()

	require.ErrorIs(t, svc.AdminUpdate(ctx, "o1", StatusDeclined, "  "), ErrReasonRequired)
	require.ErrorIs(t, svc.AdminUpdate(ctx, "o1", StatusPending, ""), ErrInvalidInput)
	require.ErrorIs(t, svc.AdminUpdate(ctx, "o1", Status("Shipped"), ""), ErrInvalidInput)
	require.ErrorIs(t, svc.AdminUpdate(ctx, "missing", StatusConfirmed, ""), ErrNotFound)

	require.NoError(t, svc.AdminUpdate(ctx, "o1", StatusDeclined, "unreadable proof"))
	assert.Equal(t, StatusDeclined, orders.lastStatus)
	assert.Equal(t, "unreadable proof", orders.lastReason)

	// a reason passed with any other status is discarded
	require.NoError(t, svc.AdminUpdate(ctx, "o1", StatusConfirmed, "stale reason"))
	assert.Equal(t, StatusConfirmed, orders.lastStatus)
	assert.Equal(t, "", orders.lastReason)
}

func TestAdminUpdate_TerminalOrdersAreImmutable(t *testing.T) {
	ctx := context.Background()
	for _, s := range []Status{StatusConfirmed, StatusDeclined, StatusCancelled} {
		orders := &stubOrders{lastOrder: &Order{ID: "o1", Status: s}}
		svc := NewService(orders, &stubLines{}, NewProofStore(t.TempDir()))
		require.ErrorIs(t, svc.AdminUpdate(ctx, "o1", StatusConfirmed, ""), ErrTerminalStatus)
	}
}

func TestCustomerCancel_PassesOwnerScope(t *testing.T) {
	orders := &stubOrders{}
	svc := NewService(orders, &stubLines{}, NewProofStore(t.TempDir()))
	ident := customer()

	require.NoError(t, svc.CustomerCancel(context.Background(), ident, "o1", " changed my mind "))
	require.Equal(t, []string{"o1", ident.UserID, "changed my mind"}, orders.cancelArgs)
}

func TestGet_CustomerCannotSeeForeignOrder(t *testing.T) {
	orders := &stubOrders{}
	lines := &stubLines{details: []cart.LineDetail{{ID: "l1", ProductID: "p1", Price: "100.00", Quantity: 1}}}
	svc := NewService(orders, lines, NewProofStore(t.TempDir()))
	owner := customer()

	o, err := svc.Checkout(context.Background(), owner, codRequest())
	require.NoError(t, err)

	_, _, err = svc.Get(context.Background(), customer(), o.ID)
	require.ErrorIs(t, err, ErrNotFound)

	got, items, err := svc.Get(context.Background(), owner, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Len(t, items, 1)

	admin := auth.Identity{UserID: uuid.NewString(), Role: auth.RoleAdmin}
	_, _, err = svc.Get(context.Background(), admin, o.ID)
	require.NoError(t, err)
}
