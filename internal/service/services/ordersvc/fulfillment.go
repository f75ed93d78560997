package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vendra/escrow-svc/internal/dal/interfaces/iorderrepo"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/mail"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// UpdateOrderStatus moves a pending order to delivered or cancelled. The
// transition is single-shot: a repeat call on a terminal order fails with
// Conflict, so the delivery notification and mail fire at most once.
func (s *OrderService) UpdateOrderStatus(
	ctx context.Context,
	actor user.Actor,
	orderID int64,
	newStatus string,
) (*order.Order, error) {
	status, err := order.ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}
	if !status.Terminal() {
		return nil, apperr.BadRequest("invalid order status: " + newStatus)
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	ord, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if ord == nil || !actorMayManage(actor, ord) {
		// Out-of-scope orders read as absent so existence never leaks.
		return nil, apperr.NotFound("Order Not Found!")
	}

	updated, err := work.OrderRepository().TransitionStatus(ctx, orderID, status, time.Now())
	if errors.Is(err, iorderrepo.ErrNotUpdated) {
		// A concurrent transition may have landed after the read above, so
		// re-read to report the status that actually won.
		if current, readErr := work.OrderRepository().GetByID(ctx, orderID); readErr == nil && current != nil {
			ord = current
		}

		return nil, apperr.Conflict("Order already " + ord.Status.String() + "!")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	notifType := notification.TypeOrderDelivered
	if status == order.StatusCancelled {
		notifType = notification.TypeOrderCancelled
	}

	err = work.NotificationRepository().Insert(ctx, notification.Notification{
		Type:      notifType,
		OrderID:   updated.ID,
		OrderRef:  updated.OrderRef,
		VendorID:  updated.VendorID,
		CompanyID: updated.CompanyID,
		Message:   fmt.Sprintf("Order marked %s by %s", status, actor.Role),
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	customer, err := work.UserRepository().GetByID(ctx, updated.CustomerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	if customer != nil {
		s.dispatchMail([]mail.Message{s.statusMail(updated, customer.Email, customer.Name, status)})
	}

	return updated, nil
}

func actorMayManage(actor user.Actor, ord *order.Order) bool {
	switch actor.Role {
	case user.RoleAdmin:
		return true
	case user.RoleCompany:
		return ord.CompanyID == actor.CompanyID
	case user.RoleVendor:
		return ord.CompanyID == actor.CompanyID && ord.VendorID == actor.ID
	default:
		return false
	}
}

func (s *OrderService) statusMail(
	ord *order.Order,
	email, name string,
	status order.Status,
) mail.Message {
	if status == order.StatusDelivered {
		return mail.Message{
			Template:  mail.TemplateConfirmOrderDelivery,
			Recipient: email,
			Subject:   "Confirm your order delivery",
			Vars: map[string]string{
				"name":     name,
				"orderRef": ord.OrderRef,
				"url":      fmt.Sprintf("%s/confirm-delivery/%d", s.frontendURL, ord.ID),
			},
		}
	}

	return mail.Message{
		Template:  mail.TemplateOrderCancelled,
		Recipient: email,
		Subject:   "Your order has been cancelled",
		Vars: map[string]string{
			"name":     name,
			"orderRef": ord.OrderRef,
		},
	}
}

// ConfirmDelivery records the customer's receipt confirmation. The call is
// reachable from an emailed link, so it must be repeatable: the wallet credit
// is guarded by the persisted credited flag and the vendor notification fires
// only on the call that actually flips the receipt. Denying receipt changes
// nothing and leaves the order awaiting confirmation.
func (s *OrderService) ConfirmDelivery(
	ctx context.Context,
	orderID int64,
	received bool,
	rating *order.Rating,
) (*order.Order, error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	ord, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if ord == nil {
		return nil, apperr.NotFound("Order Not Found!")
	}

	if !received {
		return ord, nil
	}

	firstConfirmation := !ord.UserReceived

	updated, err := work.OrderRepository().ConfirmReceipt(ctx, orderID, rating, time.Now())
	if errors.Is(err, iorderrepo.ErrNotUpdated) {
		return nil, apperr.Conflict("Order has not been delivered yet!")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	credited, err := work.OrderRepository().MarkCredited(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if credited {
		if err := work.UserRepository().CreditWallet(ctx, updated.VendorID, updated.TotalCents); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	if firstConfirmation {
		err = work.NotificationRepository().Insert(ctx, notification.Notification{
			Type:      notification.TypeDeliveryConfirmed,
			OrderID:   updated.ID,
			OrderRef:  updated.OrderRef,
			VendorID:  updated.VendorID,
			CompanyID: updated.CompanyID,
			Message:   "Customer confirmed the delivery",
		})
		if err != nil {
			return nil, apperr.Internal(err)
		}
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	return updated, nil
}
