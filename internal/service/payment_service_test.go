package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
	"github.com/imzamam0651/IT-Services/internal/client/razorpay"
)

type fakeServiceRepo struct {
	services map[uuid.UUID]*domain.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]*domain.Service)}
}

func (r *fakeServiceRepo) Create(ctx context.Context, svc *domain.Service) error {
	copied := *svc
	r.services[svc.ID] = &copied
	return nil
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	copied := *svc
	return &copied, nil
}

func (r *fakeServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	var out []domain.Service
	for _, svc := range r.services {
		out = append(out, *svc)
	}
	return out, nil
}

func (r *fakeServiceRepo) ListActive(ctx context.Context) ([]domain.Service, error) {
	var out []domain.Service
	for _, svc := range r.services {
		if svc.Active {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, svc *domain.Service) error {
	if _, ok := r.services[svc.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *svc
	r.services[svc.ID] = &copied
	return nil
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.services[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.services, id)
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*domain.PaymentOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.PaymentOrder)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.PaymentOrder) error {
	copied := *order
	r.orders[order.OrderID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentID string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return sql.ErrNoRows
	}
	order.Status = status
	if paymentID != "" {
		order.PaymentID = &paymentID
	}
	return nil
}

// fakeGateway accepts a signature of the form "sig:<order_id>|<payment_id>"
// and counts verification calls so tests can assert a settled order never
// reaches the verifier again.
type fakeGateway struct {
	nextOrderID string
	failCreate  bool
	verifyCalls int
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency string) (*razorpay.Order, error) {
	if g.failCreate {
		return nil, errors.New("gateway down")
	}
	return &razorpay.Order{
		ID:       g.nextOrderID,
		Amount:   amountMinor,
		Currency: currency,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) error {
	g.verifyCalls++
	if signature != "sig:"+orderID+"|"+paymentID {
		return razorpay.ErrSignatureMismatch
	}
	return nil
}

func (g *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

type paymentFixture struct {
	svc      PaymentService
	services *fakeServiceRepo
	orders   *fakeOrderRepo
	gateway  *fakeGateway
}

func newPaymentFixture() *paymentFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &paymentFixture{
		services: newFakeServiceRepo(),
		orders:   newFakeOrderRepo(),
		gateway:  &fakeGateway{nextOrderID: "order_test_001"},
	}
	f.svc = NewPaymentService(f.services, f.orders, f.gateway, "INR", logger)
	return f
}

func (f *paymentFixture) addService(t *testing.T, price, taxRate string, active bool) *domain.Service {
	t.Helper()
	svc := &domain.Service{
		ID:      uuid.New(),
		Name:    "Web Development",
		Price:   decimal.RequireFromString(price),
		TaxRate: decimal.RequireFromString(taxRate),
		Active:  active,
	}
	if err := f.services.Create(context.Background(), svc); err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}
	return svc
}

func TestQuote(t *testing.T) {
	f := newPaymentFixture()

	tests := []struct {
		price   string
		taxRate string
		want    string
	}{
		{"1000.00", "18.00", "1180"},
		{"500.00", "0.00", "500"},
		{"99.99", "17.50", "117.48825"},
	}

	for _, tt := range tests {
		svc := &domain.Service{
			Price:   decimal.RequireFromString(tt.price),
			TaxRate: decimal.RequireFromString(tt.taxRate),
		}
		got := f.svc.Quote(svc)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Quote(%s @ %s%%) = %s, want %s", tt.price, tt.taxRate, got, tt.want)
		}
	}
}

func TestCreateOrder(t *testing.T) {
	f := newPaymentFixture()
	svc := f.addService(t, "1000.00", "18.00", true)
	userID := uuid.New()

	order, err := f.svc.CreateOrder(context.Background(), userID, svc.ID)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.OrderID != "order_test_001" {
		t.Errorf("expected gateway order ID, got %s", order.OrderID)
	}
	if order.KeyID != "rzp_test_key" {
		t.Errorf("expected gateway key ID, got %s", order.KeyID)
	}
	if !order.Amount.Equal(decimal.RequireFromString("1180.00")) {
		t.Errorf("expected total 1180.00, got %s", order.Amount)
	}
	if order.AmountMinor != 118000 {
		t.Errorf("expected 118000 minor units, got %d", order.AmountMinor)
	}
	if order.Currency != "INR" {
		t.Errorf("expected currency INR, got %s", order.Currency)
	}

	persisted, _ := f.orders.GetByOrderID(context.Background(), order.OrderID)
	if persisted == nil {
		t.Fatal("expected order to be persisted for callback reconciliation")
	}
	if persisted.Status != domain.OrderStatusCreated {
		t.Errorf("expected status created, got %s", persisted.Status)
	}
	if persisted.UserID != userID || persisted.ServiceID != svc.ID {
		t.Error("persisted order should record the user and service")
	}
}

func TestCreateOrder_MinorUnitRounding(t *testing.T) {
	f := newPaymentFixture()
	// 99.99 * 1.175 = 117.48825, so 11748.825 minor units rounds half
	// away from zero to 11749.
	svc := f.addService(t, "99.99", "17.50", true)

	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), svc.ID)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.AmountMinor != 11749 {
		t.Errorf("expected 11749 minor units, got %d", order.AmountMinor)
	}
}

func TestCreateOrder_Failures(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}

	inactive := f.addService(t, "100.00", "18.00", false)
	_, err = f.svc.CreateOrder(context.Background(), uuid.New(), inactive.ID)
	if !errors.Is(err, ErrServiceInactive) {
		t.Errorf("expected ErrServiceInactive, got %v", err)
	}

	active := f.addService(t, "100.00", "18.00", true)
	f.gateway.failCreate = true
	_, err = f.svc.CreateOrder(context.Background(), uuid.New(), active.ID)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Errorf("expected ErrGatewayUnavailable, got %v", err)
	}
	if len(f.orders.orders) != 0 {
		t.Error("no order should be persisted when the gateway call fails")
	}
}

func TestHandleCallback_Success(t *testing.T) {
	f := newPaymentFixture()
	svc := f.addService(t, "1000.00", "18.00", true)
	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), svc.ID)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	result := f.svc.HandleCallback(context.Background(), &CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig:" + order.OrderID + "|pay_123",
	})

	if result.Status != CallbackStatusSuccessful {
		t.Fatalf("expected %q, got %q", CallbackStatusSuccessful, result.Status)
	}

	settled, _ := f.orders.GetByOrderID(context.Background(), order.OrderID)
	if settled.Status != domain.OrderStatusPaid {
		t.Errorf("expected order marked paid, got %s", settled.Status)
	}
	if settled.PaymentID == nil || *settled.PaymentID != "pay_123" {
		t.Error("expected payment ID recorded on the order")
	}
}

func TestHandleCallback_TamperedSignature(t *testing.T) {
	f := newPaymentFixture()
	svc := f.addService(t, "1000.00", "18.00", true)
	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), svc.ID)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	result := f.svc.HandleCallback(context.Background(), &CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig:tampered",
	})

	if result.Status != CallbackStatusVerifyFailed {
		t.Fatalf("expected %q, got %q", CallbackStatusVerifyFailed, result.Status)
	}

	failed, _ := f.orders.GetByOrderID(context.Background(), order.OrderID)
	if failed.Status != domain.OrderStatusFailed {
		t.Errorf("expected order marked failed, got %s", failed.Status)
	}
}

func TestHandleCallback_UnknownOrder(t *testing.T) {
	f := newPaymentFixture()

	result := f.svc.HandleCallback(context.Background(), &CallbackRequest{
		OrderID:   "order_unknown",
		PaymentID: "pay_123",
		Signature: "sig:order_unknown|pay_123",
	})

	if result.Status != CallbackStatusError {
		t.Errorf("expected %q, got %q", CallbackStatusError, result.Status)
	}
}

func TestHandleCallback_DuplicateIsIdempotent(t *testing.T) {
	f := newPaymentFixture()
	svc := f.addService(t, "1000.00", "18.00", true)
	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), svc.ID)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	req := &CallbackRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "sig:" + order.OrderID + "|pay_123",
	}

	first := f.svc.HandleCallback(context.Background(), req)
	if first.Status != CallbackStatusSuccessful {
		t.Fatalf("first callback: expected success, got %q", first.Status)
	}
	callsAfterFirst := f.gateway.verifyCalls

	second := f.svc.HandleCallback(context.Background(), req)
	if second.Status != CallbackStatusSuccessful {
		t.Fatalf("duplicate callback: expected success, got %q", second.Status)
	}
	if f.gateway.verifyCalls != callsAfterFirst {
		t.Error("a settled order should be acknowledged without re-verification")
	}
}
