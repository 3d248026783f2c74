package postgres

import (
	"database/sql"

	"rentalops-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.PaymentRepository
	repository.DepositRepository
	repository.PointsRepository
	repository.VehicleRepository
	repository.CustomerRepository
	repository.StaffRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookingRepository:      NewBookingRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		DepositRepository:      NewDepositRepository(db),
		PointsRepository:       NewPointsRepository(db),
		VehicleRepository:      NewVehicleRepository(db),
		CustomerRepository:     NewCustomerRepository(db),
		StaffRepository:        NewStaffRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
