package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-storefront/internal/checkout"
	checkoutMock "go-storefront/internal/mock/checkout"
	"go-storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const handlerSID = "sid-1"

func setupCheckoutRouter(svc checkout.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("session_id", handlerSID)
		c.Next()
	})
	h := checkout.NewHandler(svc)
	r.GET("/checkout", h.Detail)
	r.POST("/checkout", h.Begin)
	r.DELETE("/checkout", h.Abandon)
	r.PUT("/checkout/address", h.SubmitAddress)
	r.POST("/checkout/orders", h.PlaceOrder)
	r.POST("/checkout/payment/confirm", h.ConfirmPayment)
	r.POST("/checkout/payment/fail", h.FailPayment)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool                      `json:"success"`
	Data    checkout.CheckoutResponse `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCheckoutHandler_Begin(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := checkoutMock.NewMockService(ctrl)
	svc.EXPECT().Begin(gomock.Any(), handlerSID).Return(checkout.CheckoutResponse{Stage: session.StageAddressEntry}, nil)

	w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.StageAddressEntry, decode(t, w).Data.Stage)
}

func TestCheckoutHandler_SubmitAddress(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().
			SubmitAddress(gomock.Any(), handlerSID, gomock.Any()).
			DoAndReturn(func(_ any, _ string, addr session.Address) (checkout.CheckoutResponse, error) {
				assert.Equal(t, "Pune", addr.City)
				return checkout.CheckoutResponse{Stage: session.StagePaymentSelection}, nil
			})

		w := serve(setupCheckoutRouter(svc), http.MethodPut, "/checkout/address",
			`{"fullName":"Asha","phone":"9876543210","line1":"12 MG Road","city":"Pune","state":"MH","postalCode":"411001"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("field_errors_inline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().SubmitAddress(gomock.Any(), handlerSID, gomock.Any()).
			Return(checkout.CheckoutResponse{}, checkout.ErrInvalidAddress.WithDetails([]checkout.FieldError{{Field: "postalCode", Message: "must contain digits only"}}))

		w := serve(setupCheckoutRouter(svc), http.MethodPut, "/checkout/address", `{"postalCode":"41A"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.JSONEq(t, `[{"field":"postalCode","message":"must contain digits only"}]`, string(env.Error.Details))
	})

	t.Run("bad_json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)

		w := serve(setupCheckoutRouter(svc), http.MethodPut, "/checkout/address", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	t.Run("submission_failure_is_200", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().PlaceOrder(gomock.Any(), handlerSID, session.PaymentCOD).
			Return(checkout.CheckoutResponse{
				Stage:   session.StageSubmissionFailed,
				Failure: &session.Failure{Reason: "Pincode not serviceable"},
			}, nil)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/orders", `{"paymentMethod":"COD"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.Equal(t, session.StageSubmissionFailed, env.Data.Stage)
		assert.Equal(t, "Pincode not serviceable", env.Data.Failure.Reason)
	})

	t.Run("identification_required", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().PlaceOrder(gomock.Any(), handlerSID, session.PaymentOnline).
			Return(checkout.CheckoutResponse{}, session.ErrIdentificationRequired)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/orders", `{"paymentMethod":"ONLINE"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "IDENTIFICATION_REQUIRED", decode(t, w).Error.Code)
	})

	t.Run("stale_response", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(checkout.CheckoutResponse{}, session.ErrStaleResponse)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/orders", `{"paymentMethod":"COD"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing_method", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/orders", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutHandler_Payment(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().
			ConfirmPayment(gomock.Any(), handlerSID, checkout.ConfirmPaymentRequest{PaymentID: "pay-1", Signature: "sig", GatewayOrderID: "SF-1_1"}).
			Return(checkout.CheckoutResponse{Stage: session.StageOrderConfirmed}, nil)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/payment/confirm",
			`{"paymentId":"pay-1","signature":"sig","gatewayOrderId":"SF-1_1"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("confirm_requires_payment_id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/payment/confirm", `{"signature":"sig"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("fail_without_body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().FailPayment(gomock.Any(), handlerSID, "").
			Return(checkout.CheckoutResponse{Stage: session.StageSubmissionFailed}, nil)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/payment/fail", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("fail_not_awaiting", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().FailPayment(gomock.Any(), handlerSID, "closed popup").
			Return(checkout.CheckoutResponse{}, checkout.ErrNotAwaitingPayment)

		w := serve(setupCheckoutRouter(svc), http.MethodPost, "/checkout/payment/fail", `{"reason":"closed popup"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCheckoutHandler_DetailAndAbandon(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := checkoutMock.NewMockService(ctrl)
	svc.EXPECT().Detail(gomock.Any(), handlerSID).Return(checkout.CheckoutResponse{Stage: session.StageBrowsingCart}, nil)
	svc.EXPECT().Abandon(gomock.Any(), handlerSID).Return(checkout.CheckoutResponse{Stage: session.StageBrowsingCart, Attempt: 3}, nil)

	r := setupCheckoutRouter(svc)

	w := serve(r, http.MethodGet, "/checkout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodDelete, "/checkout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), decode(t, w).Data.Attempt)
}
