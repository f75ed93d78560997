package ordersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/mail"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/order"
)

// InitPayment issues a transaction reference for an order group and stamps it
// on every sibling. The actual gateway charge happens outside this service.
func (s *OrderService) InitPayment(ctx context.Context, orderRef string) (string, error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return "", apperr.Internal(err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	siblings, err := work.OrderRepository().GetByRef(ctx, orderRef)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if len(siblings) == 0 {
		return "", apperr.NotFound("Order Not Found!")
	}

	for _, sibling := range siblings {
		if sibling.UserPaid {
			return "", apperr.Conflict("Order already paid!")
		}
	}

	transactionRef := uuid.NewString()

	if err := work.OrderRepository().SetTransactionRef(ctx, orderRef, transactionRef, time.Now()); err != nil {
		return "", apperr.Internal(err)
	}

	if err := work.Commit(ctx); err != nil {
		return "", apperr.Internal(err)
	}

	return transactionRef, nil
}

// VerifyPayment marks the order group paid and fans out the payment side
// effects: a customer_placed_order notification and a "new order" mail per
// vendor, plus one consolidated mail to the customer. Redelivered
// verifications are no-ops: the already-paid group is returned unchanged and
// no duplicate notifications or mail are produced.
func (s *OrderService) VerifyPayment(
	ctx context.Context,
	orderRef, transactionRef string,
) ([]order.Order, error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	siblings, err := work.OrderRepository().GetByRef(ctx, orderRef)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	matched := make([]order.Order, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.TransactionRef == transactionRef {
			matched = append(matched, sibling)
		}
	}
	if len(matched) == 0 {
		return nil, apperr.NotFound("Order Not Found!")
	}

	paid, err := work.OrderRepository().MarkPaid(ctx, orderRef, transactionRef, time.Now())
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if len(paid) == 0 {
		// Every matching sibling is already paid: webhook redelivery.
		return matched, nil
	}

	for _, ord := range paid {
		err := work.NotificationRepository().Insert(ctx, notification.Notification{
			Type:      notification.TypeCustomerPlacedOrder,
			OrderID:   ord.ID,
			OrderRef:  ord.OrderRef,
			VendorID:  ord.VendorID,
			CompanyID: ord.CompanyID,
			Message:   "Customer placed an order",
		})
		if err != nil {
			return nil, apperr.Internal(err)
		}
	}

	// Recipient addresses are gathered before commit while the repositories
	// are still bound to the transaction.
	messages, err := s.paymentMails(ctx, work, paid)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	s.dispatchMail(messages)

	return paid, nil
}

func (s *OrderService) paymentMails(
	ctx context.Context,
	work unitOfWork,
	paid []order.Order,
) ([]mail.Message, error) {
	messages := make([]mail.Message, 0, len(paid)+1)

	var customerEmail, customerName string
	for _, ord := range paid {
		vendor, err := work.UserRepository().GetByID(ctx, ord.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, fmt.Errorf("vendor %d not found for order %d", ord.VendorID, ord.ID)
		}

		messages = append(messages, mail.Message{
			Template:  mail.TemplateOrderPlacedOnStore,
			Recipient: vendor.Email,
			Subject:   "You have a new order!",
			Vars: map[string]string{
				"name":     vendor.Name,
				"orderRef": ord.OrderRef,
				"orderId":  fmt.Sprintf("%d", ord.ID),
			},
		})

		if customerEmail == "" {
			customer, err := work.UserRepository().GetByID(ctx, ord.CustomerID)
			if err != nil {
				return nil, err
			}
			if customer != nil {
				customerEmail = customer.Email
				customerName = customer.Name
			}
		}
	}

	if customerEmail != "" {
		messages = append(messages, mail.Message{
			Template:  mail.TemplateOrderPlaced,
			Recipient: customerEmail,
			Subject:   "Your order has been placed!",
			Vars: map[string]string{
				"name":     customerName,
				"orderRef": paid[0].OrderRef,
			},
		})
	}

	return messages, nil
}
