package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// inventoryService covers the item catalog, stock movements and party pricing.
type inventoryService struct {
	BaseService
	itemRepo   portsrepo.ItemRepositoryFacade
	codeGen    portssvc.CodeGeneratorSvc
	dispatcher portssvc.NotificationDispatcher
}

// InventoryServiceOption is a functional option for configuring the inventory service
type InventoryServiceOption func(*inventoryService)

// WithLowStockAlerts posts an in-app notification when a manual adjustment
// leaves an item at or below its reorder level.
func WithLowStockAlerts(dispatcher portssvc.NotificationDispatcher) InventoryServiceOption {
	return func(s *inventoryService) {
		s.dispatcher = dispatcher
	}
}

// NewInventoryService creates a new inventory service with the provided options
func NewInventoryService(itemRepo portsrepo.ItemRepositoryFacade, codeGen portssvc.CodeGeneratorSvc, options ...InventoryServiceOption) portssvc.InventorySvcFacade {
	svc := &inventoryService{
		itemRepo: itemRepo,
		codeGen:  codeGen,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateItemRequest, userID string) (*domain.Item, error) {
	if !req.ItemType.IsValid() {
		return nil, apperrors.NewFieldError("itemType", "must be goods or service")
	}
	if !req.Category.IsValid() {
		return nil, apperrors.NewFieldError("category", "unknown category")
	}

	code, err := s.codeGen.Next(ctx, domain.ItemCodePrefix, domain.ScopeItems, false)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	item := domain.Item{
		ItemID:        uuid.NewString(),
		Code:          code,
		Name:          req.Name,
		ItemType:      req.ItemType,
		Category:      req.Category,
		Unit:          req.Unit,
		HSNCode:       req.HSNCode,
		TaxRate:       req.TaxRate,
		BasePrice:     req.BasePrice,
		CurrentStock:  req.OpeningStock,
		MinStockLevel: req.MinStockLevel,
		IsActive:      true,
		AuditFields:   newAudit(userID, now),
	}
	if err := s.itemRepo.SaveItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save item", slog.String("code", code))
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.LogInfo(ctx, "Item created", slog.String("item_id", item.ItemID), slog.String("code", code))
	return &item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.itemRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find item", slog.String("item_id", itemID))
		}
		return nil, fmt.Errorf("failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, limit int, offset int) ([]domain.Item, error) {
	items, err := s.itemRepo.ListItems(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list items")
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest, userID string) (*domain.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.HSNCode != nil {
		item.HSNCode = req.HSNCode
	}
	if req.TaxRate != nil {
		item.TaxRate = *req.TaxRate
	}
	if req.BasePrice != nil {
		item.BasePrice = *req.BasePrice
	}
	if req.MinStockLevel != nil {
		item.MinStockLevel = *req.MinStockLevel
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	item.LastUpdatedAt = s.Now()
	item.LastUpdatedBy = userID

	if err := s.itemRepo.UpdateItem(ctx, *item); err != nil {
		s.LogError(ctx, err, "Failed to update item", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to update item %s: %w", itemID, err)
	}
	return item, nil
}

// AdjustStock applies a manual signed correction and returns the item afterwards.
func (s *inventoryService) AdjustStock(ctx context.Context, itemID string, delta decimal.Decimal, userID string) (*domain.Item, error) {
	if delta.IsZero() {
		return nil, apperrors.NewFieldError("delta", "must not be zero")
	}
	if err := s.itemRepo.AdjustStock(ctx, itemID, delta); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to adjust stock", slog.String("item_id", itemID))
		}
		return nil, fmt.Errorf("failed to adjust stock of item %s: %w", itemID, err)
	}

	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Stock adjusted",
		slog.String("item_id", itemID),
		slog.String("delta", delta.String()),
		slog.String("adjusted_by", userID),
		slog.String("current_stock", item.CurrentStock.String()))

	if delta.IsNegative() && item.IsLowStock() {
		s.alertLowStock(ctx, item)
	}
	return item, nil
}

// AdjustStockInTx joins the caller's transaction. Used when issuing vouchers.
func (s *inventoryService) AdjustStockInTx(ctx context.Context, tx pgx.Tx, itemID string, delta decimal.Decimal) error {
	if err := s.itemRepo.AdjustStockInTx(ctx, tx, itemID, delta); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to adjust stock in transaction", slog.String("item_id", itemID))
		}
		return fmt.Errorf("failed to adjust stock of item %s: %w", itemID, err)
	}
	return nil
}

func (s *inventoryService) ListLowStockItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.itemRepo.ListLowStockItems(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list low stock items")
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return items, nil
}

// EffectivePrice returns the exact (item, party, location) override when one
// exists, otherwise the item's base price. Other locations never fall back.
func (s *inventoryService) EffectivePrice(ctx context.Context, itemID, partyID, location string) (decimal.Decimal, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}

	location = domain.NormalizeLocation(location)
	rate, err := s.itemRepo.FindCustomerRate(ctx, itemID, partyID, location)
	switch {
	case err == nil:
		return rate.Rate, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return item.BasePrice, nil
	default:
		s.LogError(ctx, err, "Failed to look up customer rate",
			slog.String("item_id", itemID),
			slog.String("party_id", partyID),
			slog.String("location", location))
		return decimal.Zero, fmt.Errorf("failed to resolve price: %w", err)
	}
}

func (s *inventoryService) SetCustomerRate(ctx context.Context, req dto.SetCustomerRateRequest, userID string) (*domain.CustomerItemRate, error) {
	if req.Rate.IsNegative() {
		return nil, apperrors.NewFieldError("rate", "must not be negative")
	}
	now := s.Now()
	rate := domain.CustomerItemRate{
		RateID:      uuid.NewString(),
		ItemID:      req.ItemID,
		PartyID:     req.PartyID,
		Location:    domain.NormalizeLocation(req.Location),
		Rate:        req.Rate,
		AuditFields: newAudit(userID, now),
	}
	saved, err := s.itemRepo.UpsertCustomerRate(ctx, rate)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to upsert customer rate",
				slog.String("item_id", req.ItemID),
				slog.String("party_id", req.PartyID))
		}
		return nil, fmt.Errorf("failed to set customer rate: %w", err)
	}
	return saved, nil
}

func (s *inventoryService) ListCustomerRates(ctx context.Context, partyID string) ([]domain.CustomerItemRate, error) {
	rates, err := s.itemRepo.ListCustomerRatesByParty(ctx, partyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customer rates", slog.String("party_id", partyID))
		return nil, fmt.Errorf("failed to list customer rates: %w", err)
	}
	return rates, nil
}

func (s *inventoryService) alertLowStock(ctx context.Context, item *domain.Item) {
	if s.dispatcher == nil {
		return
	}
	link := "/inventory/" + item.ItemID
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		Title:          "Low Stock",
		Message:        fmt.Sprintf("%s is down to %s %s", item.Name, item.CurrentStock.String(), item.Unit),
		Type:           domain.NotificationLowStock,
		Link:           &link,
		CreatedAt:      s.Now(),
	}
	if !s.dispatcher.Submit(notify.Message{Channel: notify.ChannelInApp, Notification: &n}) {
		s.LogDebug(ctx, "Low stock alert dropped", slog.String("item_id", item.ItemID))
	}
}
