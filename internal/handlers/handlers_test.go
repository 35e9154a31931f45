package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/core/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/handlers"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/bluestar-trading/erp_backend/internal/platform/config"
	"github.com/bluestar-trading/erp_backend/internal/repositories/memory"
	"github.com/bluestar-trading/erp_backend/internal/tracking"
	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// APITestSuite drives the real router, services and in-memory store over HTTP.
type APITestSuite struct {
	suite.Suite
	router    *gin.Engine
	container *portssvc.ServiceContainer
	registry  *tracking.Registry

	customer *domain.Party
	cement   *domain.Item
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(dto.RegisterValidators())
}

func (s *APITestSuite) SetupTest() {
	cfg := &config.Config{
		JWTSecret:          testJWTSecret,
		JWTExpiryDuration:  time.Hour,
		JWTIssuer:          "erp-test",
		IsProduction:       true,
		TrackingBufferSize: 4,
	}
	repos := memory.NewRepositoryProvider(memory.NewStore())
	s.registry = tracking.NewRegistry(cfg.TrackingBufferSize)
	s.container = services.NewServiceContainer(cfg, repos, nil, s.registry)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, s.container, handlers.RouteDeps{
		Registry: s.registry,
		Policy:   middleware.DefaultPolicy(),
	})

	ctx := context.Background()
	var err error
	s.customer, err = s.container.Party.CreateParty(ctx, dto.CreatePartyRequest{
		Name: "Sharma Builders", PartyType: domain.PartyCustomer,
	}, "seed")
	s.Require().NoError(err)
	s.cement, err = s.container.Inventory.CreateItem(ctx, dto.CreateItemRequest{
		Name: "OPC Cement", ItemType: domain.ItemGoods, Category: domain.CategoryCement, Unit: "bag",
		TaxRate: decimal.NewFromInt(18), BasePrice: decimal.NewFromInt(500),
		OpeningStock: decimal.NewFromInt(100), MinStockLevel: decimal.NewFromInt(10),
	}, "seed")
	s.Require().NoError(err)
}

func (s *APITestSuite) token(userID string, role domain.Role) string {
	token, err := utils.GenerateJWT(userID, string(role), testJWTSecret, time.Hour, "erp-test")
	s.Require().NoError(err)
	return token
}

func (s *APITestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) draftBody() gin.H {
	return gin.H{
		"voucherType": "invoice",
		"partyID":     s.customer.PartyID,
		"items": []gin.H{
			{"itemID": s.cement.ItemID, "quantity": "10", "rate": "100", "taxRate": "18"},
		},
	}
}

func (s *APITestSuite) createDraft(token string) dto.VoucherResponse {
	w := s.do(http.MethodPost, "/api/v1/vouchers", token, s.draftBody())
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var v dto.VoucherResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (s *APITestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *APITestSuite) TestRequiresBearerToken() {
	w := s.do(http.MethodGet, "/api/v1/vouchers", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestCreateDraftComputesTotals() {
	v := s.createDraft(s.token("u-clerk", domain.RoleUser))

	s.Equal(domain.VoucherDraft, v.Status)
	s.True(v.GrandTotal.Equal(decimal.NewFromInt(1180)), v.GrandTotal.String())
	s.True(v.TaxAmount.Equal(decimal.NewFromInt(180)))
	s.Regexp(`^INV-\d{8}-001$`, v.VoucherNumber)
	s.Equal("u-clerk", v.CreatedBy)
}

func (s *APITestSuite) TestIssueIsRestrictedToManagers() {
	clerk := s.token("u-clerk", domain.RoleUser)
	v := s.createDraft(clerk)

	w := s.do(http.MethodPatch, "/api/v1/vouchers/"+v.VoucherID, clerk, gin.H{"status": "issued"})
	s.Equal(http.StatusForbidden, w.Code)

	got, err := s.container.Voucher.GetVoucher(context.Background(), v.VoucherID)
	s.Require().NoError(err)
	s.Equal(domain.VoucherDraft, got.Status)

	// Notes alone stay open to everyone.
	w = s.do(http.MethodPatch, "/api/v1/vouchers/"+v.VoucherID, clerk, gin.H{"notes": "call before delivery"})
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *APITestSuite) TestClerkCannotCreateIssuedVoucher() {
	body := s.draftBody()
	body["status"] = "issued"
	w := s.do(http.MethodPost, "/api/v1/vouchers", s.token("u-clerk", domain.RoleUser), body)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestManagerIssueAppliesImpactOnce() {
	manager := s.token("u-manager", domain.RoleManager)
	v := s.createDraft(manager)

	for i := 0; i < 2; i++ {
		w := s.do(http.MethodPatch, "/api/v1/vouchers/"+v.VoucherID, manager, gin.H{"status": "issued"})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var got dto.VoucherResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
		s.Equal(domain.VoucherIssued, got.Status)
		s.Require().NotNil(got.ApprovedBy)
		s.Equal("u-manager", *got.ApprovedBy)
	}

	w := s.do(http.MethodGet, "/api/v1/parties/"+s.customer.PartyID+"/transactions", manager, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var statement dto.ListTransactionsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &statement))
	s.Require().Len(statement.Transactions, 1)
	s.Equal(domain.TransactionSale, statement.Transactions[0].TransactionType)
	s.True(statement.Transactions[0].Amount.Equal(decimal.NewFromInt(1180)))
	s.Nil(statement.NextToken)

	w = s.do(http.MethodGet, "/api/v1/items/"+s.cement.ItemID, manager, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var item dto.ItemResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &item))
	s.True(item.CurrentStock.Equal(decimal.NewFromInt(90)), item.CurrentStock.String())

	w = s.do(http.MethodGet, "/api/v1/dashboard/summary", manager, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var summary dto.DashboardSummaryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &summary))
	s.True(summary.TotalReceivable.Equal(decimal.NewFromInt(1180)))
	s.Equal(1, summary.VouchersByStatus["issued"])
	s.Equal(0, summary.VouchersByStatus["draft"])
}

func (s *APITestSuite) TestRepeatIssueKeepsFirstApprover() {
	first := s.token("u-manager", domain.RoleManager)
	second := s.token("u-admin", domain.RoleAdmin)
	v := s.createDraft(first)

	w := s.do(http.MethodPatch, "/api/v1/vouchers/"+v.VoucherID, first, gin.H{"status": "issued"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, "/api/v1/vouchers/"+v.VoucherID, second, gin.H{"status": "issued", "notes": "double click"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got dto.VoucherResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Require().NotNil(got.ApprovedBy)
	s.Equal("u-manager", *got.ApprovedBy)
	s.Require().NotNil(got.Notes)
	s.Equal("double click", *got.Notes)
}

func (s *APITestSuite) TestRevertToDraftIsUnprocessable() {
	manager := s.token("u-manager", domain.RoleManager)
	v := s.createDraft(manager)
	w := s.do(http.MethodPatch, "/api/v1/vouchers/"+v.VoucherID, manager, gin.H{"status": "issued"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/api/v1/vouchers/"+v.VoucherID, manager, gin.H{"status": "draft"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *APITestSuite) TestErrorMapping() {
	token := s.token("u-manager", domain.RoleManager)

	w := s.do(http.MethodGet, "/api/v1/vouchers/missing", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
	var errBody handlers.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &errBody))
	s.NotEmpty(errBody.Error)

	body := s.draftBody()
	body["partyID"] = "missing"
	w = s.do(http.MethodPost, "/api/v1/vouchers", token, body)
	s.Equal(http.StatusNotFound, w.Code)

	body = s.draftBody()
	body["voucherNumber"] = "INV-MANUAL-1"
	w = s.do(http.MethodPost, "/api/v1/vouchers", token, body)
	s.Require().Equal(http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, "/api/v1/vouchers", token, body)
	s.Equal(http.StatusConflict, w.Code)

	// Binding failures never reach the service.
	body = s.draftBody()
	body["items"] = []gin.H{{"itemID": s.cement.ItemID, "quantity": "0", "rate": "100", "taxRate": "18"}}
	w = s.do(http.MethodPost, "/api/v1/vouchers", token, body)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestStockAdjustmentPolicy() {
	body := gin.H{"delta": "-5", "reason": "damaged bags"}

	w := s.do(http.MethodPost, "/api/v1/items/"+s.cement.ItemID+"/stock", s.token("u-driver", domain.RoleDriver), body)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/items/"+s.cement.ItemID+"/stock", s.token("u-admin", domain.RoleAdmin), body)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var item dto.ItemResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &item))
	s.True(item.CurrentStock.Equal(decimal.NewFromInt(95)))
}

func (s *APITestSuite) TestEffectivePrice() {
	admin := s.token("u-admin", domain.RoleAdmin)
	w := s.do(http.MethodPost, "/api/v1/rates", admin, gin.H{
		"itemID": s.cement.ItemID, "partyID": s.customer.PartyID, "location": "Howrah", "rate": "450",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var price dto.EffectivePriceResponse
	w = s.do(http.MethodGet, "/api/v1/items/"+s.cement.ItemID+"/price?partyID="+s.customer.PartyID+"&location=Howrah", admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &price))
	s.True(price.Price.Equal(decimal.NewFromInt(450)))

	w = s.do(http.MethodGet, "/api/v1/items/"+s.cement.ItemID+"/price?partyID="+s.customer.PartyID, admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &price))
	s.True(price.Price.Equal(decimal.NewFromInt(500)))

	w = s.do(http.MethodGet, "/api/v1/items/"+s.cement.ItemID+"/price", admin, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestLoginIssuesUsableToken() {
	_, err := s.container.User.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "asha", Password: "correct-horse", FullName: "Asha Admin", Role: domain.RoleAdmin,
	}, "seed")
	s.Require().NoError(err)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "asha", "password": "wrong-password"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "asha", "password": "correct-horse"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &login))
	s.Equal(domain.RoleAdmin, login.Role)

	w = s.do(http.MethodGet, "/api/v1/users/me", login.Token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &me))
	s.Equal("asha", me.Username)

	w = s.do(http.MethodGet, "/api/v1/users", login.Token, nil)
	s.Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/v1/users", s.token("u-manager", domain.RoleManager), nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestTripLocationReachesSubscribers() {
	driver := s.token("u-driver", domain.RoleDriver)
	w := s.do(http.MethodPost, "/api/v1/trips", driver, gin.H{
		"vehicleNumber": "WB-02-1234", "driverName": "Ramesh",
		"sourceLocation": "Kolkata", "destinationLocation": "Howrah",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var trip dto.TripResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &trip))
	s.Equal(domain.TripPlanned, trip.Status)

	sub := s.registry.Subscribe(trip.TripID)
	defer s.registry.Unsubscribe(sub)

	w = s.do(http.MethodPost, "/api/v1/trips/"+trip.TripID+"/location", driver, gin.H{"latitude": 22.57, "longitude": 88.36})
	s.Require().Equal(http.StatusAccepted, w.Code, w.Body.String())
	var resp dto.LocationUpdateResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(1, resp.Delivered)

	loc := <-sub.Updates()
	s.Equal(trip.TripID, loc.TripID)
	s.InDelta(22.57, loc.Latitude, 1e-9)

	w = s.do(http.MethodPost, "/api/v1/trips/"+trip.TripID+"/location", s.token("u-clerk", domain.RoleUser), gin.H{"latitude": 1, "longitude": 1})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/trips/missing/stream", driver, nil)
	s.Equal(http.StatusNotFound, w.Code)
}
