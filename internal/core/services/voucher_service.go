package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// voucherService runs the voucher lifecycle. Leaving draft applies the ledger and
// stock impact in the same database transaction as the status change, with the
// voucher row locked, so the impact happens exactly once.
type voucherService struct {
	BaseService
	voucherRepo  portsrepo.VoucherRepositoryWithTx
	partyRepo    portsrepo.PartyReader
	itemRepo     portsrepo.ItemReader
	tripRepo     portsrepo.TripRepositoryFacade
	transactions portssvc.TransactionRecorderSvc
	stock        portssvc.StockSvc
	codeGen      portssvc.CodeGeneratorSvc

	dispatcher portssvc.NotificationDispatcher
	userRepo   portsrepo.UserReader
	adminChats []string
}

// VoucherServiceOption is a functional option for configuring the voucher service
type VoucherServiceOption func(*voucherService)

// WithVoucherNotifications enables draft alerts and customer emails. userRepo
// resolves creator names and admin Telegram chats.
func WithVoucherNotifications(dispatcher portssvc.NotificationDispatcher, userRepo portsrepo.UserReader) VoucherServiceOption {
	return func(s *voucherService) {
		s.dispatcher = dispatcher
		s.userRepo = userRepo
	}
}

// WithAdminChatIDs adds fixed Telegram chats that receive draft alerts alongside
// admins who linked their own chat.
func WithAdminChatIDs(chatIDs []string) VoucherServiceOption {
	return func(s *voucherService) {
		s.adminChats = chatIDs
	}
}

// WithVoucherTripRepository enables trip existence checks on create.
func WithVoucherTripRepository(repo portsrepo.TripRepositoryFacade) VoucherServiceOption {
	return func(s *voucherService) {
		s.tripRepo = repo
	}
}

// WithVoucherClock fixes the clock used for dates and audit fields.
func WithVoucherClock(clock func() time.Time) VoucherServiceOption {
	return func(s *voucherService) {
		s.Clock = clock
	}
}

// NewVoucherService creates a new voucher service with the provided options
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryWithTx,
	partyRepo portsrepo.PartyReader,
	itemRepo portsrepo.ItemReader,
	transactions portssvc.TransactionRecorderSvc,
	stock portssvc.StockSvc,
	codeGen portssvc.CodeGeneratorSvc,
	options ...VoucherServiceOption,
) portssvc.VoucherSvcFacade {
	svc := &voucherService{
		voucherRepo:  voucherRepo,
		partyRepo:    partyRepo,
		itemRepo:     itemRepo,
		transactions: transactions,
		stock:        stock,
		codeGen:      codeGen,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func (s *voucherService) GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find voucher", slog.String("voucher_id", voucherID))
		}
		return nil, fmt.Errorf("failed to get voucher %s: %w", voucherID, err)
	}
	return v, nil
}

func (s *voucherService) ListVouchers(ctx context.Context, voucherType *domain.VoucherType, limit int, offset int) ([]domain.Voucher, error) {
	if voucherType != nil && !voucherType.IsValid() {
		return nil, apperrors.NewFieldError("type", "unknown voucher type")
	}
	vouchers, err := s.voucherRepo.ListVouchers(ctx, voucherType, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers")
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return vouchers, nil
}

func validateVoucherRequest(req dto.CreateVoucherRequest) error {
	if !req.VoucherType.IsValid() {
		return apperrors.NewFieldError("voucherType", "must be challan, invoice, bill or quotation")
	}
	if req.Status != "" && !req.Status.IsValid() {
		return apperrors.NewFieldError("status", "must be draft, issued or cancelled")
	}
	if req.PartyID == "" {
		return apperrors.NewFieldError("partyID", "is required")
	}
	if len(req.Items) == 0 {
		return apperrors.NewFieldError("items", "at least one item is required")
	}
	for i, line := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case line.ItemID == "":
			return apperrors.NewFieldError(field+".itemID", "is required")
		case !line.Quantity.IsPositive():
			return apperrors.NewFieldError(field+".quantity", "must be greater than zero")
		case line.Rate.IsNegative():
			return apperrors.NewFieldError(field+".rate", "must not be negative")
		case line.TaxRate.IsNegative():
			return apperrors.NewFieldError(field+".taxRate", "must not be negative")
		}
	}
	return nil
}

// CreateVoucher validates references, numbers and totals the voucher, and persists
// it. A voucher created in a non-draft status gets its impact in the same transaction.
func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, userID string) (*domain.Voucher, error) {
	if err := validateVoucherRequest(req); err != nil {
		return nil, err
	}

	party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
	if err != nil {
		return nil, fmt.Errorf("party %s: %w", req.PartyID, err)
	}
	tripID := emptyToNil(req.TripID)
	if tripID != nil && s.tripRepo != nil {
		if _, err := s.tripRepo.FindTripByID(ctx, *tripID); err != nil {
			return nil, fmt.Errorf("trip %s: %w", *tripID, err)
		}
	}
	itemIDs := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		itemIDs = append(itemIDs, line.ItemID)
	}
	items, err := s.itemRepo.FindItemsByIDs(ctx, itemIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load voucher items")
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	for _, id := range itemIDs {
		if _, ok := items[id]; !ok {
			return nil, fmt.Errorf("%w: item %s", apperrors.ErrNotFound, id)
		}
	}

	now := s.Now()
	number := ""
	if req.VoucherNumber != nil {
		number = *req.VoucherNumber
	}
	if number == "" {
		number, err = s.codeGen.Next(ctx, req.VoucherType.NumberPrefix(), domain.ScopeVouchers, true)
		if err != nil {
			return nil, err
		}
	}

	v := domain.Voucher{
		VoucherID:     uuid.NewString(),
		VoucherNumber: number,
		VoucherType:   req.VoucherType,
		VoucherDate:   now,
		PartyID:       req.PartyID,
		TripID:        tripID,
		VehicleNumber: req.VehicleNumber,
		DriverName:    req.DriverName,
		PlaceOfSupply: req.PlaceOfSupply,
		Status:        req.Status,
		Notes:         req.Notes,
		AuditFields:   newAudit(userID, now),
	}
	if v.Status == "" {
		v.Status = domain.VoucherDraft
	}
	if req.VoucherDate != nil {
		v.VoucherDate = *req.VoucherDate
	}
	for _, line := range req.Items {
		v.Items = append(v.Items, domain.VoucherItem{
			VoucherItemID: uuid.NewString(),
			VoucherID:     v.VoucherID,
			ItemID:        line.ItemID,
			Description:   line.Description,
			Quantity:      line.Quantity,
			Rate:          line.Rate,
			TaxRate:       line.TaxRate,
		})
	}
	v.RecalculateTotals()

	impact := domain.VoucherDraft.TriggersImpact(v.Status)
	if impact {
		v.ApprovedBy = &userID
	}

	tx, err := s.voucherRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin voucher transaction")
		return nil, fmt.Errorf("failed to create voucher: %w", err)
	}
	defer s.voucherRepo.Rollback(ctx, tx) // no-op after Commit

	if err := s.voucherRepo.SaveVoucherInTx(ctx, tx, v); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to save voucher", slog.String("voucher_number", number))
		}
		return nil, fmt.Errorf("failed to create voucher %s: %w", number, err)
	}
	if impact {
		if err := s.applyImpact(ctx, tx, &v, userID, now); err != nil {
			return nil, err
		}
	}
	if err := s.voucherRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit voucher", slog.String("voucher_id", v.VoucherID))
		return nil, fmt.Errorf("failed to create voucher %s: %w", number, err)
	}

	s.LogInfo(ctx, "Voucher created",
		slog.String("voucher_id", v.VoucherID),
		slog.String("voucher_number", v.VoucherNumber),
		slog.String("status", string(v.Status)),
		slog.String("grand_total", v.GrandTotal.String()))

	view := s.voucherView(ctx, v, party, items, userID)
	if v.Status == domain.VoucherDraft {
		s.notifyDraft(ctx, view)
	}
	if impact {
		s.notifyIssued(ctx, view)
	}
	return &v, nil
}

// UpdateVoucher persists status, notes and approver under a row lock. Impact is
// applied only when the stored status was draft and the new one is not.
func (s *voucherService) UpdateVoucher(ctx context.Context, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, apperrors.NewFieldError("status", "must be draft, issued or cancelled")
	}

	tx, err := s.voucherRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin voucher transaction")
		return nil, fmt.Errorf("failed to update voucher: %w", err)
	}
	defer s.voucherRepo.Rollback(ctx, tx) // no-op after Commit

	v, err := s.voucherRepo.FindVoucherByIDForUpdate(ctx, tx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock voucher", slog.String("voucher_id", voucherID))
		}
		return nil, fmt.Errorf("failed to update voucher %s: %w", voucherID, err)
	}

	oldStatus := v.Status
	if req.Status != nil {
		if oldStatus != domain.VoucherDraft && *req.Status == domain.VoucherDraft {
			return nil, apperrors.NewFieldError("status", fmt.Sprintf("a %s voucher cannot return to draft", oldStatus))
		}
		v.Status = *req.Status
	}
	if req.Notes != nil {
		v.Notes = req.Notes
	}
	if req.ApprovedBy != nil {
		v.ApprovedBy = req.ApprovedBy
	}
	now := s.Now()
	v.LastUpdatedAt = now
	v.LastUpdatedBy = userID

	impact := oldStatus.TriggersImpact(v.Status)
	if impact {
		if v.GrandTotal.IsZero() {
			v.RecalculateTotals()
			if err := s.voucherRepo.UpdateVoucherItemAmountsInTx(ctx, tx, v.Items); err != nil {
				s.LogError(ctx, err, "Failed to persist recomputed line amounts", slog.String("voucher_id", voucherID))
				return nil, fmt.Errorf("failed to update voucher %s: %w", voucherID, err)
			}
		}
		if err := s.applyImpact(ctx, tx, v, userID, now); err != nil {
			return nil, err
		}
	} else if oldStatus != v.Status {
		s.LogDebug(ctx, "Status change carries no impact",
			slog.String("voucher_id", voucherID),
			slog.String("from", string(oldStatus)),
			slog.String("to", string(v.Status)))
	}

	if err := s.voucherRepo.UpdateVoucherInTx(ctx, tx, *v); err != nil {
		s.LogError(ctx, err, "Failed to update voucher", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to update voucher %s: %w", voucherID, err)
	}
	if err := s.voucherRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit voucher update", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to update voucher %s: %w", voucherID, err)
	}

	s.LogInfo(ctx, "Voucher updated",
		slog.String("voucher_id", voucherID),
		slog.String("from", string(oldStatus)),
		slog.String("to", string(v.Status)),
		slog.Bool("impact_applied", impact))

	if impact && s.dispatcher != nil {
		party, err := s.partyRepo.FindPartyByID(ctx, v.PartyID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load party for voucher email", slog.String("party_id", v.PartyID))
			return v, nil
		}
		s.notifyIssued(ctx, s.voucherView(ctx, *v, party, nil, v.CreatedBy))
	}
	return v, nil
}

// applyImpact records the ledger entry and stock movements for a voucher leaving draft.
// It must run inside the transaction that persists the status change.
func (s *voucherService) applyImpact(ctx context.Context, tx pgx.Tx, v *domain.Voucher, userID string, now time.Time) error {
	impact := v.Impact()

	if impact.LedgerType != nil {
		if v.GrandTotal.IsPositive() {
			txn := domain.Transaction{
				TransactionID:   uuid.NewString(),
				PartyID:         &v.PartyID,
				VoucherID:       &v.VoucherID,
				TransactionType: *impact.LedgerType,
				PaymentMode:     domain.PaymentCredit,
				Amount:          v.GrandTotal,
				Status:          domain.TransactionCompleted,
				Description:     &impact.Description,
				TransactionDate: now,
				AuditFields:     newAudit(userID, now),
			}
			if err := s.transactions.RecordTransactionInTx(ctx, tx, txn); err != nil {
				return fmt.Errorf("failed to record ledger entry for voucher %s: %w", v.VoucherNumber, err)
			}
		} else {
			s.LogInfo(ctx, "Zero-value voucher issued without ledger entry", slog.String("voucher_id", v.VoucherID))
		}
	}

	movements := v.StockMovements()
	for _, m := range movements {
		if err := s.stock.AdjustStockInTx(ctx, tx, m.ItemID, m.Delta); err != nil {
			return fmt.Errorf("failed to move stock for voucher %s: %w", v.VoucherNumber, err)
		}
	}

	s.LogDebug(ctx, "Voucher impact applied",
		slog.String("voucher_id", v.VoucherID),
		slog.String("type", string(v.VoucherType)),
		slog.Int("stock_movements", len(movements)))
	return nil
}

// voucherView resolves display names for notifications. Lookup failures degrade
// to IDs; they never fail the request.
func (s *voucherService) voucherView(ctx context.Context, v domain.Voucher, party *domain.Party, items map[string]domain.Item, userID string) notify.VoucherView {
	view := notify.VoucherView{Voucher: v, Party: party, CreatedBy: userID, ItemNames: map[string]string{}}
	if s.dispatcher == nil {
		return view
	}

	if items == nil {
		ids := make([]string, 0, len(v.Items))
		for _, line := range v.Items {
			ids = append(ids, line.ItemID)
		}
		found, err := s.itemRepo.FindItemsByIDs(ctx, ids)
		if err != nil {
			s.LogDebug(ctx, "Item names unavailable for notification", slog.String("error", err.Error()))
		}
		items = found
	}
	for id, item := range items {
		view.ItemNames[id] = item.Name
	}

	if s.userRepo != nil && userID != "" {
		if user, err := s.userRepo.FindUserByID(ctx, userID); err == nil {
			view.CreatedBy = user.DisplayName()
		}
	}
	return view
}

func (s *voucherService) submit(ctx context.Context, msg notify.Message) {
	if !s.dispatcher.Submit(msg) {
		s.LogError(ctx, errors.New("notification queue full or stopped"), "Notification dropped",
			slog.String("channel", string(msg.Channel)))
	}
}

// notifyDraft broadcasts a new draft in-app and alerts admins on Telegram.
func (s *voucherService) notifyDraft(ctx context.Context, view notify.VoucherView) {
	if s.dispatcher == nil {
		return
	}
	s.submit(ctx, notify.DraftNotification(view, s.Now()))

	chatIDs := slices.Clone(s.adminChats)
	if s.userRepo != nil {
		linked, err := s.userRepo.FindAdminTelegramChatIDs(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to load admin Telegram chats")
		}
		for _, id := range linked {
			if !slices.Contains(chatIDs, id) {
				chatIDs = append(chatIDs, id)
			}
		}
	}
	if len(chatIDs) > 0 {
		s.submit(ctx, notify.DraftAlert(view, chatIDs))
	}
}

// notifyIssued emails the party for voucher types that are sent to customers.
func (s *voucherService) notifyIssued(ctx context.Context, view notify.VoucherView) {
	if s.dispatcher == nil || !view.Voucher.Impact().EmailParty {
		return
	}
	msg, ok, err := notify.VoucherEmail(view)
	if err != nil {
		s.LogError(ctx, err, "Failed to render voucher email", slog.String("voucher_id", view.Voucher.VoucherID))
		return
	}
	if !ok {
		s.LogDebug(ctx, "Party has no email, skipping voucher email", slog.String("party_id", view.Voucher.PartyID))
		return
	}
	s.submit(ctx, msg)
}
