package pgsql

import (
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PartyRepo:        newPgxPartyRepository(dbPool),
		ItemRepo:         newPgxItemRepository(dbPool),
		VoucherRepo:      newPgxVoucherRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		SequenceRepo:     newPgxSequenceRepository(dbPool),
		TripRepo:         newPgxTripRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
	}
}
