package services

// ServiceContainer holds instances of all the application services.
// It is the main entry point for handlers.
type ServiceContainer struct {
	Voucher      VoucherSvcFacade
	Transaction  TransactionSvcFacade
	Inventory    InventorySvcFacade
	Party        PartySvcFacade
	CodeGen      CodeGeneratorSvc
	Trip         TripSvcFacade
	Notification NotificationSvcFacade
	User         UserSvcFacade
	Reporting    ReportingService
}
