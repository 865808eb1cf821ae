package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wyzar-be/internal/order"
	"wyzar-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, userID uint, email string, items []order.CartItem, addr order.ShippingAddress) (*order.Order, string, error) {
	args := m.Called(ctx, userID, email, items, addr)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*order.Order), args.String(1), args.Error(2)
}

func (m *MockOrderService) HandleCallback(ctx context.Context, payload *payment.CallbackPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID uint) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, orderID string, userID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePayment(ctx context.Context, reference, email, description string, amount float64) (*payment.InitiateResponse, error) {
	args := m.Called(ctx, reference, email, description, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.InitiateResponse), args.Error(1)
}

func (m *MockGateway) VerifyCallback(raw []byte) error {
	args := m.Called(raw)
	return args.Error(0)
}

func postCallback(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/paynow/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)
	return rec
}

func TestServeCallback(t *testing.T) {
	body := "reference=order-1&paynowreference=PN-100&status=Paid&hash=ABC"

	t.Run("ValidCallbackUpdatesOrder", func(t *testing.T) {
		svc := new(MockOrderService)
		gw := new(MockGateway)
		h := NewHandler(svc, gw)

		gw.On("VerifyCallback", []byte(body)).Return(nil)
		svc.On("HandleCallback", mock.Anything, mock.MatchedBy(func(p *payment.CallbackPayload) bool {
			return p.Reference == "order-1" && p.Status == "Paid" && p.PaynowReference == "PN-100"
		})).Return(nil)

		rec := postCallback(h, body)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("BadHashStillAcknowledged", func(t *testing.T) {
		svc := new(MockOrderService)
		gw := new(MockGateway)
		h := NewHandler(svc, gw)

		gw.On("VerifyCallback", mock.Anything).Return(errors.New("invalid integrity hash"))

		rec := postCallback(h, body)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "HandleCallback", mock.Anything, mock.Anything)
	})

	t.Run("MalformedPayloadStillAcknowledged", func(t *testing.T) {
		svc := new(MockOrderService)
		gw := new(MockGateway)
		h := NewHandler(svc, gw)

		gw.On("VerifyCallback", mock.Anything).Return(nil)

		rec := postCallback(h, "status=Paid")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "HandleCallback", mock.Anything, mock.Anything)
	})

	t.Run("ServiceErrorStillAcknowledged", func(t *testing.T) {
		svc := new(MockOrderService)
		gw := new(MockGateway)
		h := NewHandler(svc, gw)

		gw.On("VerifyCallback", mock.Anything).Return(nil)
		svc.On("HandleCallback", mock.Anything, mock.Anything).Return(errors.New("db down"))

		rec := postCallback(h, body)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
