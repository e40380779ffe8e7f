package dto

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot. Order ids
// end up in the checkout memo, where a comma would make it ambiguous.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// CheckoutParams is the parsed ":checkout" path segment.
type CheckoutParams struct {
	OrderID string `binding:"required,max=100,safe_id"`
	Amount  string `binding:"required,max=40"`
	Size    string `binding:"required,numeric,max=5"`
}

var errCheckoutPath = errors.New("checkout must be {orderId}-{amount}-{size}")

// ParseCheckoutPath splits "{orderId}-{amount}-{size}" from the right, so the
// order id may itself contain dashes. The result is validated with the
// binding tags above.
func ParseCheckoutPath(s string) (CheckoutParams, error) {
	i := strings.LastIndexByte(s, '-')
	if i <= 0 {
		return CheckoutParams{}, errCheckoutPath
	}
	j := strings.LastIndexByte(s[:i], '-')
	if j <= 0 {
		return CheckoutParams{}, errCheckoutPath
	}

	p := CheckoutParams{OrderID: s[:j], Amount: s[j+1 : i], Size: s[i+1:]}
	if err := binding.Validator.ValidateStruct(&p); err != nil {
		return CheckoutParams{}, err
	}
	return p, nil
}
