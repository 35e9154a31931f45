// Package mapping converts between domain entities and database row models.
package mapping

import (
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/models"
)

func toModelAudit(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func toDomainAudit(a models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func ToModelParty(d domain.Party) models.Party {
	return models.Party{
		PartyID:        d.PartyID,
		Code:           d.Code,
		Name:           d.Name,
		PartyType:      string(d.PartyType),
		Email:          d.Email,
		Phone:          d.Phone,
		GSTIN:          d.GSTIN,
		Address:        d.Address,
		CreditLimit:    d.CreditLimit,
		CurrentBalance: d.CurrentBalance,
		Status:         string(d.Status),
		AuditFields:    toModelAudit(d.AuditFields),
	}
}

func ToDomainParty(m models.Party) domain.Party {
	return domain.Party{
		PartyID:        m.PartyID,
		Code:           m.Code,
		Name:           m.Name,
		PartyType:      domain.PartyType(m.PartyType),
		Email:          m.Email,
		Phone:          m.Phone,
		GSTIN:          m.GSTIN,
		Address:        m.Address,
		CreditLimit:    m.CreditLimit,
		CurrentBalance: m.CurrentBalance,
		Status:         domain.PartyStatus(m.Status),
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}

func ToModelItem(d domain.Item) models.Item {
	return models.Item{
		ItemID:        d.ItemID,
		Code:          d.Code,
		Name:          d.Name,
		ItemType:      string(d.ItemType),
		Category:      string(d.Category),
		Unit:          d.Unit,
		HSNCode:       d.HSNCode,
		TaxRate:       d.TaxRate,
		BasePrice:     d.BasePrice,
		CurrentStock:  d.CurrentStock,
		MinStockLevel: d.MinStockLevel,
		IsActive:      d.IsActive,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		ItemID:        m.ItemID,
		Code:          m.Code,
		Name:          m.Name,
		ItemType:      domain.ItemType(m.ItemType),
		Category:      domain.ItemCategory(m.Category),
		Unit:          m.Unit,
		HSNCode:       m.HSNCode,
		TaxRate:       m.TaxRate,
		BasePrice:     m.BasePrice,
		CurrentStock:  m.CurrentStock,
		MinStockLevel: m.MinStockLevel,
		IsActive:      m.IsActive,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

func ToModelCustomerItemRate(d domain.CustomerItemRate) models.CustomerItemRate {
	return models.CustomerItemRate{
		RateID:      d.RateID,
		ItemID:      d.ItemID,
		PartyID:     d.PartyID,
		Location:    domain.NormalizeLocation(d.Location),
		Rate:        d.Rate,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

func ToDomainCustomerItemRate(m models.CustomerItemRate) domain.CustomerItemRate {
	return domain.CustomerItemRate{
		RateID:      m.RateID,
		ItemID:      m.ItemID,
		PartyID:     m.PartyID,
		Location:    m.Location,
		Rate:        m.Rate,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

// ToModelVoucher maps the header only; use ToModelVoucherItems for the lines.
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:     d.VoucherID,
		VoucherNumber: d.VoucherNumber,
		VoucherType:   string(d.VoucherType),
		VoucherDate:   d.VoucherDate,
		PartyID:       d.PartyID,
		TripID:        d.TripID,
		VehicleNumber: d.VehicleNumber,
		DriverName:    d.DriverName,
		PlaceOfSupply: d.PlaceOfSupply,
		Status:        string(d.Status),
		TotalAmount:   d.TotalAmount,
		TaxAmount:     d.TaxAmount,
		GrandTotal:    d.GrandTotal,
		Notes:         d.Notes,
		ApprovedBy:    d.ApprovedBy,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

// ToModelVoucherItems numbers the lines in slice order so they read back the same way.
func ToModelVoucherItems(voucherID string, items []domain.VoucherItem) []models.VoucherItem {
	out := make([]models.VoucherItem, len(items))
	for i, it := range items {
		out[i] = models.VoucherItem{
			VoucherItemID: it.VoucherItemID,
			VoucherID:     voucherID,
			LineNo:        i + 1,
			ItemID:        it.ItemID,
			Description:   it.Description,
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			TaxRate:       it.TaxRate,
			Amount:        it.Amount,
		}
	}
	return out
}

func ToDomainVoucher(m models.Voucher, items []models.VoucherItem) domain.Voucher {
	v := domain.Voucher{
		VoucherID:     m.VoucherID,
		VoucherNumber: m.VoucherNumber,
		VoucherType:   domain.VoucherType(m.VoucherType),
		VoucherDate:   m.VoucherDate,
		PartyID:       m.PartyID,
		TripID:        m.TripID,
		VehicleNumber: m.VehicleNumber,
		DriverName:    m.DriverName,
		PlaceOfSupply: m.PlaceOfSupply,
		Status:        domain.VoucherStatus(m.Status),
		TotalAmount:   m.TotalAmount,
		TaxAmount:     m.TaxAmount,
		GrandTotal:    m.GrandTotal,
		Notes:         m.Notes,
		ApprovedBy:    m.ApprovedBy,
		Items:         make([]domain.VoucherItem, 0, len(items)),
		AuditFields:   toDomainAudit(m.AuditFields),
	}
	for _, it := range items {
		v.Items = append(v.Items, domain.VoucherItem{
			VoucherItemID: it.VoucherItemID,
			VoucherID:     it.VoucherID,
			ItemID:        it.ItemID,
			Description:   it.Description,
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			TaxRate:       it.TaxRate,
			Amount:        it.Amount,
		})
	}
	return v
}

func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		PartyID:         d.PartyID,
		VoucherID:       d.VoucherID,
		TransactionType: string(d.TransactionType),
		PaymentMode:     string(d.PaymentMode),
		Amount:          d.Amount,
		Status:          string(d.Status),
		ReferenceNumber: d.ReferenceNumber,
		Description:     d.Description,
		TransactionDate: d.TransactionDate,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		PartyID:         m.PartyID,
		VoucherID:       m.VoucherID,
		TransactionType: domain.TransactionType(m.TransactionType),
		PaymentMode:     domain.PaymentMode(m.PaymentMode),
		Amount:          m.Amount,
		Status:          domain.TransactionStatus(m.Status),
		ReferenceNumber: m.ReferenceNumber,
		Description:     m.Description,
		TransactionDate: m.TransactionDate,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

func ToModelTrip(d domain.Trip) models.Trip {
	return models.Trip{
		TripID:              d.TripID,
		TripNumber:          d.TripNumber,
		VehicleNumber:       d.VehicleNumber,
		DriverName:          d.DriverName,
		SourceLocation:      d.SourceLocation,
		DestinationLocation: d.DestinationLocation,
		Status:              string(d.Status),
		StartDate:           d.StartDate,
		AuditFields:         toModelAudit(d.AuditFields),
	}
}

func ToDomainTrip(m models.Trip) domain.Trip {
	return domain.Trip{
		TripID:              m.TripID,
		TripNumber:          m.TripNumber,
		VehicleNumber:       m.VehicleNumber,
		DriverName:          m.DriverName,
		SourceLocation:      m.SourceLocation,
		DestinationLocation: m.DestinationLocation,
		Status:              domain.TripStatus(m.Status),
		StartDate:           m.StartDate,
		AuditFields:         toDomainAudit(m.AuditFields),
	}
}

func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: d.NotificationID,
		UserID:         d.UserID,
		Title:          d.Title,
		Message:        d.Message,
		Type:           d.Type,
		Link:           d.Link,
		IsRead:         d.IsRead,
		CreatedAt:      d.CreatedAt,
	}
}

func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		Title:          m.Title,
		Message:        m.Message,
		Type:           m.Type,
		Link:           m.Link,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:         d.UserID,
		Username:       d.Username,
		FullName:       d.FullName,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Role:           string(d.Role),
		TelegramChatID: d.TelegramChatID,
		IsActive:       d.IsActive,
		AuditFields:    toModelAudit(d.AuditFields),
	}
}

func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Username:       m.Username,
		FullName:       m.FullName,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           domain.Role(m.Role),
		TelegramChatID: m.TelegramChatID,
		IsActive:       m.IsActive,
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}
