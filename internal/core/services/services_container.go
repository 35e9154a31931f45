package services

import (
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// dispatcher may be nil, which disables notifications.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	dispatcher portssvc.NotificationDispatcher,
	publisher LocationPublisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Code generation backs parties, items, trips and vouchers
	container.CodeGen = NewCodeGeneratorService(repos.SequenceRepo)

	container.Party = NewPartyService(repos.PartyRepo, container.CodeGen)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.PartyRepo)

	var inventoryOpts []InventoryServiceOption
	voucherOpts := []VoucherServiceOption{WithVoucherTripRepository(repos.TripRepo)}
	if dispatcher != nil {
		inventoryOpts = append(inventoryOpts, WithLowStockAlerts(dispatcher))
		voucherOpts = append(voucherOpts,
			WithVoucherNotifications(dispatcher, repos.UserRepo),
			WithAdminChatIDs(cfg.TelegramAdminChatIDs))
	}
	container.Inventory = NewInventoryService(repos.ItemRepo, container.CodeGen, inventoryOpts...)

	container.Voucher = NewVoucherService(
		repos.VoucherRepo,
		repos.PartyRepo,
		repos.ItemRepo,
		container.Transaction,
		container.Inventory,
		container.CodeGen,
		voucherOpts...,
	)

	container.Trip = NewTripService(repos.TripRepo, container.CodeGen, publisher)
	container.Notification = NewNotificationService(repos.NotificationRepo)
	container.User = NewUserService(repos.UserRepo, TokenSettings{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiryDuration,
		Issuer: cfg.JWTIssuer,
	})
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
