package handler

import (
	"net/http"

	"pago-gateway/internal/adapter/http/dto"
	"pago-gateway/internal/adapter/http/middleware"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
	"pago-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler turns store orders into payment requests.
type CheckoutHandler struct {
	checkoutSvc ports.CheckoutService
}

func NewCheckoutHandler(checkoutSvc ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutSvc: checkoutSvc}
}

// Checkout handles GET /api/v1/checkouts/:checkout where :checkout is
// {orderId}-{amount}-{size}. The same order and amount always redirect to
// the same request page.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	params, err := dto.ParseCheckoutPath(c.Param("checkout"))
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	intent, err := h.checkoutSvc.Resolve(c.Request.Context(), ports.CheckoutRequest{
		OrderID: params.OrderID,
		Amount:  params.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, intent.Reference)
	c.Redirect(http.StatusFound, "/requests/"+intent.Reference+"-"+params.Size)
}
