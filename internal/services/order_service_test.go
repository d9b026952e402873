package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

type fakeOrderRepo struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *models.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.orders[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range r.orders {
		if o.Customer == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByProfessional(ctx context.Context, professionalID primitive.ObjectID) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range r.orders {
		if o.Professional != nil && *o.Professional == professionalID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

type sentNotification struct {
	Recipient primitive.ObjectID
	Title     string
	Type      models.NotificationType
}

// recordNotifier records emitted notifications in order.
type recordNotifier struct {
	sent []sentNotification
}

func (n *recordNotifier) Notify(ctx context.Context, recipient primitive.ObjectID, title, message string, notifType models.NotificationType, relatedID *primitive.ObjectID) {
	n.sent = append(n.sent, sentNotification{Recipient: recipient, Title: title, Type: notifType})
}

// noopCache always misses.
type noopCache struct{}

func (noopCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("cache miss")
}

func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }

func newTestOrderService() (*OrderService, *fakeOrderRepo, *recordNotifier) {
	repo := newFakeOrderRepo()
	notifier := &recordNotifier{}
	return NewOrderService(repo, notifier, noopCache{}), repo, notifier
}

func seedOrder(repo *fakeOrderRepo, status models.OrderStatus, withProfessional bool) *models.Order {
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		Customer:    primitive.NewObjectID(),
		ServiceName: "Plumbing",
		Description: "Fix kitchen sink",
		Status:      status,
		Price:       150,
	}
	if withProfessional {
		pro := primitive.NewObjectID()
		order.Professional = &pro
	}
	cp := *order
	repo.orders[order.ID] = &cp
	return order
}

func TestCreateOrder_StartsPending(t *testing.T) {
	svc, repo, notifier := newTestOrderService()

	order := &models.Order{
		Customer:    primitive.NewObjectID(),
		ServiceName: "Cleaning",
		Description: "Deep clean apartment",
		Status:      models.StatusCompleted, // caller cannot pick the state
	}
	if err := svc.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	stored := repo.orders[order.ID]
	if stored.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", stored.Status, models.StatusPending)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(notifier.sent))
	}
	if notifier.sent[0].Title != "Order Placed" || notifier.sent[0].Recipient != order.Customer {
		t.Errorf("unexpected creation notification: %+v", notifier.sent[0])
	}
}

func TestCreateOrder_NotifiesPreassignedProfessional(t *testing.T) {
	svc, _, notifier := newTestOrderService()

	pro := primitive.NewObjectID()
	order := &models.Order{
		Customer:     primitive.NewObjectID(),
		Professional: &pro,
		ServiceName:  "Electrical",
		Description:  "Replace wall socket",
	}
	if err := svc.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(notifier.sent))
	}
	if notifier.sent[0].Recipient != order.Customer {
		t.Error("customer should be notified first")
	}
	if notifier.sent[1].Recipient != pro || notifier.sent[1].Title != "New Service Request" {
		t.Errorf("unexpected professional notification: %+v", notifier.sent[1])
	}
}

func TestCreateOrder_MissingFields(t *testing.T) {
	svc, repo, _ := newTestOrderService()

	order := &models.Order{Customer: primitive.NewObjectID(), ServiceName: "Cleaning"}
	err := svc.CreateOrder(context.Background(), order)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(repo.orders) != 0 {
		t.Error("invalid order must not be stored")
	}
}

func TestUpdateStatus_Accepted(t *testing.T) {
	svc, _, notifier := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusPending, true)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusAccepted, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.StatusAccepted {
		t.Errorf("status = %q, want Accepted", updated.Status)
	}

	want := []sentNotification{
		{Recipient: order.Customer, Title: "Order Accepted!", Type: models.TypeOrder},
		{Recipient: *order.Professional, Title: "Order Confirmed", Type: models.TypeOrder},
	}
	assertNotifications(t, notifier.sent, want)
}

func TestUpdateStatus_PaymentPendingRequiresPrice(t *testing.T) {
	svc, _, notifier := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusAccepted, true)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusPaymentPending, nil)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	zero := 0.0
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusPaymentPending, &zero)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for zero price", err)
	}

	if repo.orders[order.ID].Status != models.StatusAccepted {
		t.Error("rejected transition must not change the stored status")
	}
	if len(notifier.sent) != 0 {
		t.Error("rejected transition must not notify anyone")
	}
}

func TestUpdateStatus_PaymentPending(t *testing.T) {
	svc, _, notifier := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusAccepted, true)

	price := 220.0
	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusPaymentPending, &price)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Price != 220 {
		t.Errorf("price = %v, want 220", updated.Price)
	}

	want := []sentNotification{
		{Recipient: order.Customer, Title: "Payment Required", Type: models.TypePayment},
		{Recipient: *order.Professional, Title: "Awaiting Payment", Type: models.TypePayment},
	}
	assertNotifications(t, notifier.sent, want)
}

func TestUpdateStatus_Completed(t *testing.T) {
	svc, _, notifier := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusPaymentPending, true)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusCompleted, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	want := []sentNotification{
		{Recipient: order.Customer, Title: "Order Completed!", Type: models.TypeOrder},
		{Recipient: *order.Professional, Title: "Payment Received!", Type: models.TypePayment},
	}
	assertNotifications(t, notifier.sent, want)
}

func TestUpdateStatus_CancelledWithoutProfessional(t *testing.T) {
	svc, _, notifier := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusPending, false)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	want := []sentNotification{
		{Recipient: order.Customer, Title: "Order Cancelled", Type: models.TypeOrder},
	}
	assertNotifications(t, notifier.sent, want)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusPending, false)

	_, err := svc.UpdateStatus(context.Background(), order.ID, "InProgress", nil)
	if !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatus_SameStatusSilent(t *testing.T) {
	svc, _, notifier := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusAccepted, true)

	price := 300.0
	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusAccepted, &price)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Price != 300 {
		t.Errorf("price = %v, want 300", updated.Price)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("same-status update sent %d notifications, want 0", len(notifier.sent))
	}
}

func TestUpdateStatus_AdminForcesAnyState(t *testing.T) {
	svc, _, notifier := newTestOrderService()
	repo := svc.repo.(*fakeOrderRepo)
	order := seedOrder(repo, models.StatusCompleted, true)

	// Moderation can move an order backwards.
	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusPending, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.StatusPending {
		t.Errorf("status = %q, want Pending", updated.Status)
	}

	// Pending has no dedicated message; the generic one goes to the customer.
	want := []sentNotification{
		{Recipient: order.Customer, Title: "Order Status Updated", Type: models.TypeOrder},
	}
	assertNotifications(t, notifier.sent, want)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := newTestOrderService()

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusAccepted, nil)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func assertNotifications(t *testing.T, got, want []sentNotification) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("sent %d notifications, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
