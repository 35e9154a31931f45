package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	PartyRepo        PartyRepositoryFacade
	ItemRepo         ItemRepositoryFacade
	VoucherRepo      VoucherRepositoryWithTx
	TransactionRepo  TransactionRepositoryWithTx
	SequenceRepo     SequenceRepository
	TripRepo         TripRepositoryFacade
	NotificationRepo NotificationRepository
	UserRepo         UserRepositoryFacade
	ReportingRepo    ReportingRepository
}
