package notify

import (
	"testing"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() VoucherView {
	email := "buyer@example.com"
	v := domain.Voucher{
		VoucherID:     "v-1",
		VoucherNumber: "INV-20240115-001",
		VoucherType:   domain.VoucherInvoice,
		VoucherDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.VoucherDraft,
		Items: []domain.VoucherItem{{
			ItemID:   "i-1",
			Quantity: decimal.NewFromInt(2),
			Rate:     decimal.NewFromInt(500),
			TaxRate:  decimal.NewFromInt(18),
		}},
	}
	v.RecalculateTotals()
	return VoucherView{
		Voucher:   v,
		Party:     &domain.Party{PartyID: "p-1", Name: "Sharma & Sons", Email: &email},
		ItemNames: map[string]string{"i-1": "OPC Cement 53 Grade"},
		CreatedBy: "Ravi",
	}
}

func TestDraftNotificationIsBroadcast(t *testing.T) {
	msg := DraftNotification(sampleView(), time.Now())

	require.NotNil(t, msg.Notification)
	assert.Equal(t, ChannelInApp, msg.Channel)
	assert.Nil(t, msg.Notification.UserID)
	assert.Equal(t, "New Draft Voucher", msg.Notification.Title)
	assert.Equal(t, "New invoice draft INV-20240115-001 created by Ravi", msg.Notification.Message)
	assert.Equal(t, domain.NotificationVoucherDraft, msg.Notification.Type)
}

func TestDraftAlertEscapesAndAddsButtons(t *testing.T) {
	msg := DraftAlert(sampleView(), []string{"111"})

	assert.Equal(t, ChannelTelegram, msg.Channel)
	assert.Equal(t, []string{"111"}, msg.To)
	assert.Contains(t, msg.Body, "INVOICE #INV-20240115-001")
	assert.Contains(t, msg.Body, "Sharma &amp; Sons")
	assert.Contains(t, msg.Body, "SUPPLY:</b> West Bengal")
	assert.Contains(t, msg.Body, "Grand Total: ₹1,180.00")
	assert.Contains(t, msg.Body, "OPC Cement 53 G")
	require.Len(t, msg.Buttons, 1)
	assert.Equal(t, "approve_doc:v-1", msg.Buttons[0][0].CallbackData)
	assert.Equal(t, "reject_doc:v-1", msg.Buttons[0][1].CallbackData)
}

func TestVoucherEmail(t *testing.T) {
	msg, ok, err := VoucherEmail(sampleView())

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ChannelEmail, msg.Channel)
	assert.Equal(t, []string{"buyer@example.com"}, msg.To)
	assert.Equal(t, "Trade Voucher: INVOICE #INV-20240115-001 - BlueStar Trading", msg.Subject)
	assert.Contains(t, msg.Body, "Dear <strong>Sharma &amp; Sons</strong>")
	assert.Contains(t, msg.Body, "OPC Cement 53 Grade")
	assert.Contains(t, msg.Body, "₹1,180.00")
	assert.Contains(t, msg.Body, "ISSUED")
}

func TestVoucherEmailSkipsPartyWithoutEmail(t *testing.T) {
	view := sampleView()
	view.Party.Email = nil

	_, ok, err := VoucherEmail(view)
	require.NoError(t, err)
	assert.False(t, ok)

	view.Party = nil
	_, ok, err = VoucherEmail(view)
	require.NoError(t, err)
	assert.False(t, ok)
}
