package scheduling

import (
	"context"
	"time"

	"github.com/garagedesk/shop-scheduler/internal/audit"
	domain "github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
	"github.com/garagedesk/shop-scheduler/internal/timezone"
)

// CustomerCancel is the customer-portal cancel: ownership is checked before
// anything else, and cancellation is a status transition with a retained
// row, not a delete.
type CustomerCancel struct {
	repo  domain.Repository
	audit *audit.Dispatcher

	now func(tz string) time.Time
}

func NewCustomerCancel(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CustomerCancel {
	return &CustomerCancel{
		repo:  repo,
		audit: audit,
		now:   timezone.NowIn,
	}
}

func (uc *CustomerCancel) Execute(
	ctx context.Context,
	customerID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, domain.NotFoundError{Resource: "appointment", ID: itoa(appointmentID)}
	}

	if ap.CustomerID != customerID {
		return nil, domain.AuthorizationError{Reason: "appointment does not belong to the caller"}
	}

	if err := domain.CanCustomerModify(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	shop, err := uc.repo.GetShop(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now(shop.Timezone)
	ap.Status = string(domain.StatusCancelled)
	ap.CancelledAt = &now

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorType: audit.ActorCustomer,
		ActorID:   &customerID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
