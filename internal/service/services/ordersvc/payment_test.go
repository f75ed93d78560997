package ordersvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/mail"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// placeTwoVendorOrder seeds two vendors and places one order group for them.
func placeTwoVendorOrder(t *testing.T, store *fakeStore, svc *OrderService) (user.User, user.User, string) {
	t.Helper()

	first := store.addVendor(1, "first@shop.test")
	second := store.addVendor(1, "second@shop.test")

	placement, err := svc.PlaceOrder(context.Background(), companyActor(1), PlaceOrderRequest{
		CustomerEmail: "customer@mail.test",
		CustomerName:  "Customer",
		Products: []PlacedProduct{
			{Vendor: first.Email, ID: "p1", Name: "Shoe", PriceCents: 5000},
			{Vendor: second.Email, ID: "p2", Name: "Bag", PriceCents: 7000},
		},
	})
	require.NoError(t, err)

	return first, second, placement.OrderRef
}

func TestInitPaymentStampsAllSiblings(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	_, _, orderRef := placeTwoVendorOrder(t, store, svc)

	transactionRef, err := svc.InitPayment(context.Background(), orderRef)
	require.NoError(t, err)
	require.NotEmpty(t, transactionRef)

	for _, o := range store.orders {
		assert.Equal(t, transactionRef, o.TransactionRef)
		assert.False(t, o.UserPaid)
	}
}

func TestInitPaymentUnknownRef(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	_, err := svc.InitPayment(context.Background(), "#12345")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestInitPaymentAfterPaymentConflicts(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	_, _, orderRef := placeTwoVendorOrder(t, store, svc)

	transactionRef, err := svc.InitPayment(context.Background(), orderRef)
	require.NoError(t, err)
	_, err = svc.VerifyPayment(context.Background(), orderRef, transactionRef)
	require.NoError(t, err)

	_, err = svc.InitPayment(context.Background(), orderRef)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestVerifyPaymentMarksSiblingsAndFansOut(t *testing.T) {
	store := newFakeStore()
	svc, m := newTestService(store)
	first, second, orderRef := placeTwoVendorOrder(t, store, svc)

	transactionRef, err := svc.InitPayment(context.Background(), orderRef)
	require.NoError(t, err)

	paid, err := svc.VerifyPayment(context.Background(), orderRef, transactionRef)
	require.NoError(t, err)
	require.Len(t, paid, 2)
	for _, o := range paid {
		assert.True(t, o.UserPaid)
		assert.NotNil(t, o.UserPaidOn)
	}

	// One notification per vendor order.
	require.Len(t, store.notifications, 2)
	for _, n := range store.notifications {
		assert.Equal(t, notification.TypeCustomerPlacedOrder, n.Type)
		assert.Equal(t, orderRef, n.OrderRef)
	}

	// One mail per vendor plus one consolidated customer mail.
	messages := m.messages()
	require.Len(t, messages, 3)

	recipients := map[string]mail.Template{}
	for _, msg := range messages {
		recipients[msg.Recipient] = msg.Template
	}
	assert.Equal(t, mail.TemplateOrderPlacedOnStore, recipients[first.Email])
	assert.Equal(t, mail.TemplateOrderPlacedOnStore, recipients[second.Email])
	assert.Equal(t, mail.TemplateOrderPlaced, recipients["customer@mail.test"])
}

func TestVerifyPaymentRedeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc, m := newTestService(store)
	_, _, orderRef := placeTwoVendorOrder(t, store, svc)

	transactionRef, err := svc.InitPayment(context.Background(), orderRef)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(context.Background(), orderRef, transactionRef)
	require.NoError(t, err)

	redelivered, err := svc.VerifyPayment(context.Background(), orderRef, transactionRef)
	require.NoError(t, err)
	require.Len(t, redelivered, 2)
	for _, o := range redelivered {
		assert.True(t, o.UserPaid)
	}

	// No duplicate side effects on redelivery.
	assert.Len(t, store.notifications, 2)
	assert.Len(t, m.messages(), 3)
}

func TestVerifyPaymentWrongTransactionRef(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)
	_, _, orderRef := placeTwoVendorOrder(t, store, svc)

	_, err := svc.InitPayment(context.Background(), orderRef)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(context.Background(), orderRef, "bogus-ref")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	for _, o := range store.orders {
		assert.False(t, o.UserPaid)
	}
}
