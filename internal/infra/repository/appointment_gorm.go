package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
	"github.com/garagedesk/shop-scheduler/internal/models"
)

const activeStatusFilter = "status NOT IN ('cancelled', 'no_show')"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Shop / config
// --------------------------------------------------

func (r *AppointmentGormRepository) GetShop(
	ctx context.Context,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetOperatingHours(
	ctx context.Context,
	weekday int,
) (*models.OperatingHours, error) {

	var oh models.OperatingHours
	if err := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		First(&oh).Error; err != nil {
		return nil, err
	}
	return &oh, nil
}

func (r *AppointmentGormRepository) GetCapacitySettings(
	ctx context.Context,
) (*models.CapacitySettings, error) {

	var cs models.CapacitySettings
	if err := r.db.WithContext(ctx).First(&cs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ConfigurationError{Missing: "capacity settings"}
		}
		return nil, err
	}
	return &cs, nil
}

// --------------------------------------------------
// Service catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetServices(
	ctx context.Context,
	ids []uint,
) ([]models.CannedService, error) {

	if len(ids) == 0 {
		return nil, nil
	}

	var services []models.CannedService
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Capacity counts
// --------------------------------------------------

func (r *AppointmentGormRepository) CountContained(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (int, error) {
	return countContained(r.db.WithContext(ctx), start, end, 0)
}

func (r *AppointmentGormRepository) CountIntersecting(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (int, error) {
	return countIntersecting(r.db.WithContext(ctx), start, end, 0)
}

func (r *AppointmentGormRepository) CountForDay(
	ctx context.Context,
	dayStart time.Time,
	dayEnd time.Time,
) (int, error) {
	return countForDay(r.db.WithContext(ctx), dayStart, dayEnd, 0)
}

func countContained(db *gorm.DB, start, end time.Time, excludeID uint) (int, error) {
	q := db.Model(&models.Appointment{}).
		Where(activeStatusFilter).
		Where("start_time >= ? AND end_time <= ?", start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func countIntersecting(db *gorm.DB, start, end time.Time, excludeID uint) (int, error) {
	q := db.Model(&models.Appointment{}).
		Where(activeStatusFilter).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func countForDay(db *gorm.DB, dayStart, dayEnd time.Time, excludeID uint) (int, error) {
	q := db.Model(&models.Appointment{}).
		Where(activeStatusFilter).
		Where("start_time >= ? AND start_time < ?", dayStart, dayEnd)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// --------------------------------------------------
// Appointment writes
// --------------------------------------------------

const serializationRetries = 3

// CreateAppointment re-runs both capacity counts and inserts the row inside
// one serializable transaction. Two concurrent bookings for the same block
// cannot both pass the count: one of them hits a serialization failure and
// retries against the committed state.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	check scheduling.CapacityCheck,
) error {
	return r.withSerializableRetry(ctx, func(tx *gorm.DB) error {
		if err := assertCapacity(tx, ap, check, 0); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
	newStart time.Time,
	newEnd time.Time,
	check scheduling.CapacityCheck,
) error {
	return r.withSerializableRetry(ctx, func(tx *gorm.DB) error {
		moved := *ap
		moved.StartTime = &newStart
		moved.EndTime = &newEnd

		if err := assertCapacity(tx, &moved, check, ap.ID); err != nil {
			return err
		}

		if err := tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Updates(map[string]any{
				"start_time": newStart,
				"end_time":   newEnd,
			}).Error; err != nil {
			return err
		}

		ap.StartTime = &newStart
		ap.EndTime = &newEnd
		return nil
	})
}

func assertCapacity(
	tx *gorm.DB,
	ap *models.Appointment,
	check scheduling.CapacityCheck,
	excludeID uint,
) error {

	dayCount, err := countForDay(tx, check.DayStart, check.DayEnd, excludeID)
	if err != nil {
		return err
	}
	if dayCount >= check.PerDay {
		return scheduling.CapacityExceededError{
			Scope: scheduling.ScopeDay,
			Limit: check.PerDay,
		}
	}

	blockCount, err := countIntersecting(tx, *ap.StartTime, *ap.EndTime, excludeID)
	if err != nil {
		return err
	}
	if blockCount >= check.PerBlock {
		return scheduling.CapacityExceededError{
			Scope:        scheduling.ScopeTimeBlock,
			Limit:        check.PerBlock,
			BlockMinutes: check.BlockMin,
		}
	}

	return nil
}

func (r *AppointmentGormRepository) withSerializableRetry(
	ctx context.Context,
	fn func(tx *gorm.DB) error,
) error {

	var err error
	for attempt := 0; attempt < serializationRetries; attempt++ {
		err = r.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{
			Isolation: sql.LevelSerializable,
		})
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("booking transaction did not settle: %w", err)
}

// SQLSTATE 40001 (serialization_failure) and 40P01 (deadlock_detected).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).
		Select("Services").
		Delete(&models.Appointment{ID: id}).Error
}

// --------------------------------------------------
// Appointment reads
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("AssignedTo").
		Preload("Services.Service").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Services.Service").
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Services.Service").
		Where("customer_id = ?", customerID).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *AppointmentGormRepository) GetStaff(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AppointmentGormRepository) GetVehicle(
	ctx context.Context,
	id uint,
) (*models.Vehicle, error) {

	var v models.Vehicle
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Compile-time check
var _ scheduling.Repository = (*AppointmentGormRepository)(nil)
