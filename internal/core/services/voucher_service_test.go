package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/core/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/notify"
	"github.com/bluestar-trading/erp_backend/internal/repositories/memory"
	"github.com/bluestar-trading/erp_backend/internal/tracking"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var scenarioNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// recordingDispatcher captures submitted messages instead of delivering them.
type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []notify.Message
}

var _ portssvc.NotificationDispatcher = (*recordingDispatcher)(nil)

func (d *recordingDispatcher) Submit(msg notify.Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msg)
	return true
}

func (d *recordingDispatcher) on(ch notify.Channel) []notify.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notify.Message
	for _, m := range d.msgs {
		if m.Channel == ch {
			out = append(out, m)
		}
	}
	return out
}

// failingStockStore fails stock movements after the ledger entry has been written.
type failingStockStore struct {
	*memory.Store
}

func (f failingStockStore) AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal) error {
	return errors.New("disk full")
}

type VoucherScenarioSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	dispatcher *recordingDispatcher
	codeGen    portssvc.CodeGeneratorSvc
	txns       portssvc.TransactionSvcFacade
	inventory  portssvc.InventorySvcFacade
	parties    portssvc.PartySvcFacade
	vouchers   portssvc.VoucherSvcFacade

	customer *domain.Party
	supplier *domain.Party
	cement   *domain.Item
	adminID  string
}

func TestVoucherScenarioSuite(t *testing.T) {
	suite.Run(t, new(VoucherScenarioSuite))
}

func (s *VoucherScenarioSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.dispatcher = &recordingDispatcher{}
	repos := memory.NewRepositoryProvider(s.store)
	clock := func() time.Time { return scenarioNow }

	s.codeGen = services.NewCodeGeneratorService(repos.SequenceRepo, services.WithCodeGeneratorClock(clock))
	s.txns = services.NewTransactionService(repos.TransactionRepo, repos.PartyRepo)
	s.inventory = services.NewInventoryService(repos.ItemRepo, s.codeGen)
	s.parties = services.NewPartyService(repos.PartyRepo, s.codeGen)
	s.vouchers = services.NewVoucherService(repos.VoucherRepo, repos.PartyRepo, repos.ItemRepo, s.txns, s.inventory, s.codeGen,
		services.WithVoucherClock(clock),
		services.WithVoucherTripRepository(repos.TripRepo),
		services.WithVoucherNotifications(s.dispatcher, repos.UserRepo),
	)

	chatID := "9001"
	s.adminID = "u-admin"
	s.Require().NoError(s.store.SaveUser(s.ctx, domain.User{
		UserID: s.adminID, Username: "asha", FullName: "Asha Admin",
		Role: domain.RoleAdmin, TelegramChatID: &chatID, IsActive: true,
	}))

	email := "orders@sharma.example"
	var err error
	s.customer, err = s.parties.CreateParty(s.ctx, dto.CreatePartyRequest{
		Name: "Sharma Builders", PartyType: domain.PartyCustomer, Email: &email,
	}, s.adminID)
	s.Require().NoError(err)
	s.supplier, err = s.parties.CreateParty(s.ctx, dto.CreatePartyRequest{
		Name: "Ultra Cements", PartyType: domain.PartySupplier,
	}, s.adminID)
	s.Require().NoError(err)
	s.cement, err = s.inventory.CreateItem(s.ctx, dto.CreateItemRequest{
		Name: "OPC Cement", ItemType: domain.ItemGoods, Category: domain.CategoryCement, Unit: "bag",
		TaxRate: decimal.NewFromInt(18), BasePrice: decimal.NewFromInt(500),
		OpeningStock: decimal.NewFromInt(100), MinStockLevel: decimal.NewFromInt(10),
	}, s.adminID)
	s.Require().NoError(err)
}

func (s *VoucherScenarioSuite) line(qty, rate, tax int64) dto.CreateVoucherItemRequest {
	return dto.CreateVoucherItemRequest{
		ItemID:   s.cement.ItemID,
		Quantity: decimal.NewFromInt(qty),
		Rate:     decimal.NewFromInt(rate),
		TaxRate:  decimal.NewFromInt(tax),
	}
}

func (s *VoucherScenarioSuite) create(vt domain.VoucherType, party *domain.Party, status domain.VoucherStatus) *domain.Voucher {
	v, err := s.vouchers.CreateVoucher(s.ctx, dto.CreateVoucherRequest{
		VoucherType: vt,
		PartyID:     party.PartyID,
		Status:      status,
		Items:       []dto.CreateVoucherItemRequest{s.line(10, 100, 18)},
	}, s.adminID)
	s.Require().NoError(err)
	return v
}

func (s *VoucherScenarioSuite) issue(v *domain.Voucher) *domain.Voucher {
	issued := domain.VoucherIssued
	out, err := s.vouchers.UpdateVoucher(s.ctx, v.VoucherID, dto.UpdateVoucherRequest{Status: &issued, ApprovedBy: &s.adminID}, s.adminID)
	s.Require().NoError(err)
	return out
}

func (s *VoucherScenarioSuite) balance(p *domain.Party) decimal.Decimal {
	got, err := s.store.FindPartyByID(s.ctx, p.PartyID)
	s.Require().NoError(err)
	return got.CurrentBalance
}

func (s *VoucherScenarioSuite) stock() decimal.Decimal {
	got, err := s.store.FindItemByID(s.ctx, s.cement.ItemID)
	s.Require().NoError(err)
	return got.CurrentStock
}

func (s *VoucherScenarioSuite) ledger(v *domain.Voucher) []domain.Transaction {
	txns, err := s.store.ListTransactionsByVoucher(s.ctx, v.VoucherID)
	s.Require().NoError(err)
	return txns
}

func (s *VoucherScenarioSuite) TestDraftInvoiceHasTotalsButNoImpact() {
	v := s.create(domain.VoucherInvoice, s.customer, "")

	s.Equal(domain.VoucherDraft, v.Status)
	s.Equal("INV-20240115-001", v.VoucherNumber)
	s.True(v.Items[0].Amount.Equal(decimal.NewFromInt(1000)))
	s.True(v.TotalAmount.Equal(decimal.NewFromInt(1000)))
	s.True(v.TaxAmount.Equal(decimal.NewFromInt(180)))
	s.True(v.GrandTotal.Equal(decimal.NewFromInt(1180)))
	s.Nil(v.ApprovedBy)

	s.True(s.balance(s.customer).IsZero())
	s.True(s.stock().Equal(decimal.NewFromInt(100)))
	s.Empty(s.ledger(v))

	inApp := s.dispatcher.on(notify.ChannelInApp)
	s.Require().Len(inApp, 1)
	s.Equal("New invoice draft INV-20240115-001 created by Asha Admin", inApp[0].Notification.Message)
	alerts := s.dispatcher.on(notify.ChannelTelegram)
	s.Require().Len(alerts, 1)
	s.Equal([]string{"9001"}, alerts[0].To)
	s.Empty(s.dispatcher.on(notify.ChannelEmail))
}

func (s *VoucherScenarioSuite) TestIssuingTwiceAppliesImpactOnce() {
	v := s.create(domain.VoucherInvoice, s.customer, domain.VoucherDraft)

	issued := s.issue(v)
	s.Equal(domain.VoucherIssued, issued.Status)
	s.Equal(s.adminID, *issued.ApprovedBy)

	note := "second click"
	status := domain.VoucherIssued
	again, err := s.vouchers.UpdateVoucher(s.ctx, v.VoucherID, dto.UpdateVoucherRequest{Status: &status, Notes: &note}, s.adminID)
	s.Require().NoError(err)
	s.Equal("second click", *again.Notes)

	ledger := s.ledger(v)
	s.Require().Len(ledger, 1)
	s.Equal(domain.TransactionSale, ledger[0].TransactionType)
	s.Equal(domain.PaymentCredit, ledger[0].PaymentMode)
	s.True(ledger[0].Amount.Equal(decimal.NewFromInt(1180)))
	s.Equal("Invoice INV-20240115-001", *ledger[0].Description)
	s.True(s.balance(s.customer).Equal(decimal.NewFromInt(1180)))
	s.True(s.stock().Equal(decimal.NewFromInt(90)))

	stored, err := s.vouchers.GetVoucher(s.ctx, v.VoucherID)
	s.Require().NoError(err)
	s.Equal("second click", *stored.Notes)

	emails := s.dispatcher.on(notify.ChannelEmail)
	s.Require().Len(emails, 1)
	s.Equal([]string{"orders@sharma.example"}, emails[0].To)
}

func (s *VoucherScenarioSuite) TestCreatingIssuedVoucherAppliesImpactImmediately() {
	v := s.create(domain.VoucherInvoice, s.customer, domain.VoucherIssued)

	s.Equal(s.adminID, *v.ApprovedBy)
	s.Len(s.ledger(v), 1)
	s.True(s.balance(s.customer).Equal(decimal.NewFromInt(1180)))
	s.True(s.stock().Equal(decimal.NewFromInt(90)))
	s.Empty(s.dispatcher.on(notify.ChannelTelegram))

	s.issue(v)
	s.Len(s.ledger(v), 1)
	s.True(s.stock().Equal(decimal.NewFromInt(90)))
}

func (s *VoucherScenarioSuite) TestBillAddsStockAndLowersBalance() {
	v := s.create(domain.VoucherBill, s.supplier, domain.VoucherDraft)
	s.Equal("BIL-20240115-001", v.VoucherNumber)
	s.issue(v)

	ledger := s.ledger(v)
	s.Require().Len(ledger, 1)
	s.Equal(domain.TransactionPurchase, ledger[0].TransactionType)
	s.Equal("Purchase Bill BIL-20240115-001", *ledger[0].Description)
	s.True(s.balance(s.supplier).Equal(decimal.NewFromInt(-1180)))
	s.True(s.stock().Equal(decimal.NewFromInt(110)))
	s.Empty(s.dispatcher.on(notify.ChannelEmail))
}

func (s *VoucherScenarioSuite) TestChallanMovesStockOnly() {
	v := s.create(domain.VoucherChallan, s.customer, domain.VoucherDraft)
	s.issue(v)

	s.Empty(s.ledger(v))
	s.True(s.balance(s.customer).IsZero())
	s.True(s.stock().Equal(decimal.NewFromInt(90)))
	s.Len(s.dispatcher.on(notify.ChannelEmail), 1)
}

func (s *VoucherScenarioSuite) TestQuotationHasNoImpactButIsEmailed() {
	v := s.create(domain.VoucherQuotation, s.customer, domain.VoucherDraft)
	s.issue(v)

	s.Empty(s.ledger(v))
	s.True(s.balance(s.customer).IsZero())
	s.True(s.stock().Equal(decimal.NewFromInt(100)))
	s.Len(s.dispatcher.on(notify.ChannelEmail), 1)
}

func (s *VoucherScenarioSuite) TestCancellingDraftHasNoImpactAndCannotBeReissued() {
	v := s.create(domain.VoucherInvoice, s.customer, domain.VoucherDraft)
	cancelled := domain.VoucherCancelled
	_, err := s.vouchers.UpdateVoucher(s.ctx, v.VoucherID, dto.UpdateVoucherRequest{Status: &cancelled}, s.adminID)
	s.Require().NoError(err)
	s.Empty(s.ledger(v))

	s.issue(v)
	s.Empty(s.ledger(v))
	s.True(s.stock().Equal(decimal.NewFromInt(100)))
}

func (s *VoucherScenarioSuite) TestIssuingZeroTotalDraftRecomputesTotals() {
	// a draft stored without totals, as older rows were
	legacy := domain.Voucher{
		VoucherID:     "legacy-1",
		VoucherNumber: "INV-20240110-004",
		VoucherType:   domain.VoucherInvoice,
		VoucherDate:   scenarioNow,
		PartyID:       s.customer.PartyID,
		Status:        domain.VoucherDraft,
		Items: []domain.VoucherItem{{
			VoucherItemID: "legacy-1-l1",
			VoucherID:     "legacy-1",
			ItemID:        s.cement.ItemID,
			Quantity:      decimal.NewFromInt(10),
			Rate:          decimal.NewFromInt(100),
			TaxRate:       decimal.NewFromInt(18),
		}},
		AuditFields: domain.AuditFields{
			CreatedAt: scenarioNow, CreatedBy: s.adminID,
			LastUpdatedAt: scenarioNow, LastUpdatedBy: s.adminID,
		},
	}
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveVoucherInTx(s.ctx, tx, legacy))
	s.Require().NoError(s.store.Commit(s.ctx, tx))

	issued := s.issue(&legacy)
	s.True(issued.GrandTotal.Equal(decimal.NewFromInt(1180)), issued.GrandTotal.String())

	stored, err := s.vouchers.GetVoucher(s.ctx, legacy.VoucherID)
	s.Require().NoError(err)
	s.True(stored.TotalAmount.Equal(decimal.NewFromInt(1000)), stored.TotalAmount.String())
	s.True(stored.TaxAmount.Equal(decimal.NewFromInt(180)), stored.TaxAmount.String())
	s.True(stored.GrandTotal.Equal(decimal.NewFromInt(1180)), stored.GrandTotal.String())
	s.Require().Len(stored.Items, 1)
	s.True(stored.Items[0].Amount.Equal(decimal.NewFromInt(1000)), stored.Items[0].Amount.String())

	ledger := s.ledger(&legacy)
	s.Require().Len(ledger, 1)
	s.Equal(domain.TransactionSale, ledger[0].TransactionType)
	s.True(ledger[0].Amount.Equal(decimal.NewFromInt(1180)))
	s.True(s.balance(s.customer).Equal(decimal.NewFromInt(1180)))
	s.True(s.stock().Equal(decimal.NewFromInt(90)))
}

func (s *VoucherScenarioSuite) TestIssuedVoucherCannotReturnToDraft() {
	v := s.create(domain.VoucherInvoice, s.customer, domain.VoucherIssued)
	draft := domain.VoucherDraft

	_, err := s.vouchers.UpdateVoucher(s.ctx, v.VoucherID, dto.UpdateVoucherRequest{Status: &draft}, s.adminID)
	s.ErrorIs(err, apperrors.ErrValidation)

	stored, err := s.vouchers.GetVoucher(s.ctx, v.VoucherID)
	s.Require().NoError(err)
	s.Equal(domain.VoucherIssued, stored.Status)
}

func (s *VoucherScenarioSuite) TestDailyNumbersCountAcrossVoucherTypes() {
	first := s.create(domain.VoucherInvoice, s.customer, domain.VoucherDraft)
	second := s.create(domain.VoucherQuotation, s.customer, domain.VoucherDraft)
	third := s.create(domain.VoucherChallan, s.customer, domain.VoucherDraft)

	s.Equal("INV-20240115-001", first.VoucherNumber)
	s.Equal("QTN-20240115-002", second.VoucherNumber)
	s.Equal("CHL-20240115-003", third.VoucherNumber)
}

func (s *VoucherScenarioSuite) TestExplicitNumberIsKeptAndDuplicatesRejected() {
	number := "INV-MANUAL-7"
	req := dto.CreateVoucherRequest{
		VoucherNumber: &number,
		VoucherType:   domain.VoucherInvoice,
		PartyID:       s.customer.PartyID,
		Items:         []dto.CreateVoucherItemRequest{s.line(1, 100, 0)},
	}
	v, err := s.vouchers.CreateVoucher(s.ctx, req, s.adminID)
	s.Require().NoError(err)
	s.Equal(number, v.VoucherNumber)

	_, err = s.vouchers.CreateVoucher(s.ctx, req, s.adminID)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *VoucherScenarioSuite) TestMissingReferencesAreNotFound() {
	missingTrip := "no-such-trip"
	cases := map[string]dto.CreateVoucherRequest{
		"party": {VoucherType: domain.VoucherInvoice, PartyID: "no-such-party",
			Items: []dto.CreateVoucherItemRequest{s.line(1, 1, 0)}},
		"trip": {VoucherType: domain.VoucherInvoice, PartyID: s.customer.PartyID, TripID: &missingTrip,
			Items: []dto.CreateVoucherItemRequest{s.line(1, 1, 0)}},
		"item": {VoucherType: domain.VoucherInvoice, PartyID: s.customer.PartyID,
			Items: []dto.CreateVoucherItemRequest{{ItemID: "no-such-item", Quantity: decimal.NewFromInt(1)}}},
	}
	for name, req := range cases {
		_, err := s.vouchers.CreateVoucher(s.ctx, req, s.adminID)
		s.ErrorIs(err, apperrors.ErrNotFound, name)
	}

	list, err := s.vouchers.ListVouchers(s.ctx, nil, 100, 0)
	s.Require().NoError(err)
	s.Empty(list)

	_, err = s.vouchers.UpdateVoucher(s.ctx, "no-such-voucher", dto.UpdateVoucherRequest{}, s.adminID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *VoucherScenarioSuite) TestInvalidLinesAreFieldQualified() {
	cases := map[string]dto.CreateVoucherItemRequest{
		"items[0].quantity": s.line(0, 100, 18),
		"items[0].rate":     s.line(1, -1, 18),
		"items[0].taxRate":  s.line(1, 100, -5),
	}
	for field, line := range cases {
		_, err := s.vouchers.CreateVoucher(s.ctx, dto.CreateVoucherRequest{
			VoucherType: domain.VoucherInvoice,
			PartyID:     s.customer.PartyID,
			Items:       []dto.CreateVoucherItemRequest{line},
		}, s.adminID)
		s.ErrorIs(err, apperrors.ErrValidation)
		var fe *apperrors.FieldError
		s.Require().ErrorAs(err, &fe)
		s.Equal(field, fe.Field)
	}

	_, err := s.vouchers.CreateVoucher(s.ctx, dto.CreateVoucherRequest{
		VoucherType: domain.VoucherInvoice, PartyID: s.customer.PartyID,
	}, s.adminID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *VoucherScenarioSuite) TestFailedImpactRollsBackStatusAndLedger() {
	v := s.create(domain.VoucherInvoice, s.customer, domain.VoucherDraft)

	repos := memory.NewRepositoryProvider(s.store)
	broken := failingStockStore{s.store}
	inventory := services.NewInventoryService(broken, s.codeGen)
	vouchers := services.NewVoucherService(repos.VoucherRepo, repos.PartyRepo, repos.ItemRepo, s.txns, inventory, s.codeGen)

	issued := domain.VoucherIssued
	_, err := vouchers.UpdateVoucher(s.ctx, v.VoucherID, dto.UpdateVoucherRequest{Status: &issued}, s.adminID)
	s.Require().Error(err)

	stored, err := s.vouchers.GetVoucher(s.ctx, v.VoucherID)
	s.Require().NoError(err)
	s.Equal(domain.VoucherDraft, stored.Status)
	s.Empty(s.ledger(v))
	s.True(s.balance(s.customer).IsZero())

	// The store lock was released by the rollback.
	s.issue(v)
	s.Len(s.ledger(v), 1)
}

func (s *VoucherScenarioSuite) TestConcurrentIssueAppliesOnce() {
	v := s.create(domain.VoucherInvoice, s.customer, domain.VoucherDraft)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issued := domain.VoucherIssued
			_, _ = s.vouchers.UpdateVoucher(s.ctx, v.VoucherID, dto.UpdateVoucherRequest{Status: &issued}, s.adminID)
		}()
	}
	wg.Wait()

	s.Len(s.ledger(v), 1)
	s.True(s.balance(s.customer).Equal(decimal.NewFromInt(1180)))
	s.True(s.stock().Equal(decimal.NewFromInt(90)))
}

func (s *VoucherScenarioSuite) TestPricingPrefersExactOverride() {
	_, err := s.inventory.SetCustomerRate(s.ctx, dto.SetCustomerRateRequest{
		ItemID: s.cement.ItemID, PartyID: s.customer.PartyID, Rate: decimal.NewFromInt(450),
	}, s.adminID)
	s.Require().NoError(err)

	price, err := s.inventory.EffectivePrice(s.ctx, s.cement.ItemID, s.customer.PartyID, "")
	s.Require().NoError(err)
	s.True(price.Equal(decimal.NewFromInt(450)))

	price, err = s.inventory.EffectivePrice(s.ctx, s.cement.ItemID, s.customer.PartyID, "Howrah")
	s.Require().NoError(err)
	s.True(price.Equal(decimal.NewFromInt(500)))

	price, err = s.inventory.EffectivePrice(s.ctx, s.cement.ItemID, s.supplier.PartyID, domain.DefaultLocation)
	s.Require().NoError(err)
	s.True(price.Equal(decimal.NewFromInt(500)))

	_, err = s.inventory.EffectivePrice(s.ctx, "no-such-item", s.customer.PartyID, "")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *VoucherScenarioSuite) TestManualStockAdjustmentMayGoNegative() {
	item, err := s.inventory.AdjustStock(s.ctx, s.cement.ItemID, decimal.NewFromInt(-150), s.adminID)
	s.Require().NoError(err)
	s.True(item.CurrentStock.Equal(decimal.NewFromInt(-50)))

	low, err := s.inventory.ListLowStockItems(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(low, 1)
	s.Equal(s.cement.ItemID, low[0].ItemID)

	_, err = s.inventory.AdjustStock(s.ctx, "no-such-item", decimal.NewFromInt(1), s.adminID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *VoucherScenarioSuite) TestSequentialCodes() {
	s.Equal("P-001", s.customer.Code)
	s.Equal("P-002", s.supplier.Code)
	s.Equal("I-001", s.cement.Code)
}

func (s *VoucherScenarioSuite) TestTripLocationsReachSubscribers() {
	registry := tracking.NewRegistry(4)
	trips := services.NewTripService(memory.NewRepositoryProvider(s.store).TripRepo, s.codeGen, registry)

	trip, err := trips.CreateTrip(s.ctx, dto.CreateTripRequest{
		VehicleNumber: "WB-02-AB-1234", DriverName: "Raju", SourceLocation: "Durgapur", DestinationLocation: "Kolkata",
	}, s.adminID)
	s.Require().NoError(err)
	s.Equal("TRP-20240115-001", trip.TripNumber)
	s.Equal(domain.TripPlanned, trip.Status)

	sub := registry.Subscribe(trip.TripID)
	defer registry.Unsubscribe(sub)

	delivered, err := trips.PublishLocation(s.ctx, trip.TripID, dto.LocationUpdateRequest{Latitude: 22.57, Longitude: 88.36})
	s.Require().NoError(err)
	s.Equal(1, delivered)
	got := <-sub.Updates()
	s.Equal(22.57, got.Latitude)
	s.Equal(trip.TripID, got.TripID)

	_, err = trips.UpdateTripStatus(s.ctx, trip.TripID, domain.TripCompleted, s.adminID)
	s.Require().NoError(err)
	_, err = trips.PublishLocation(s.ctx, trip.TripID, dto.LocationUpdateRequest{Latitude: 1, Longitude: 1})
	s.ErrorIs(err, apperrors.ErrValidation)
}
