package mapping

import (
	"testing"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherItemsKeepLineOrder(t *testing.T) {
	items := []domain.VoucherItem{
		{VoucherItemID: "a", ItemID: "cement", Quantity: decimal.NewFromInt(10)},
		{VoucherItemID: "b", ItemID: "diesel", Quantity: decimal.NewFromInt(2)},
	}

	rows := ToModelVoucherItems("v1", items)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].LineNo)
	assert.Equal(t, 2, rows[1].LineNo)
	assert.Equal(t, "v1", rows[1].VoucherID)

	v := ToDomainVoucher(ToModelVoucher(domain.Voucher{VoucherID: "v1", Status: domain.VoucherDraft}), rows)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "cement", v.Items[0].ItemID)
	assert.Equal(t, "diesel", v.Items[1].ItemID)
	assert.Equal(t, domain.VoucherDraft, v.Status)
}

func TestCustomerRateLocationDefaults(t *testing.T) {
	m := ToModelCustomerItemRate(domain.CustomerItemRate{ItemID: "i", PartyID: "p"})
	assert.Equal(t, domain.DefaultLocation, m.Location)
}
