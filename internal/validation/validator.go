package validation

import (
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"

	"tableside/internal/domain"
)

// New returns a configured validator with the order-total struct-level
// check registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(createOrderStructValidation, domain.CreateOrderRequest{})
	return v
}

// createOrderStructValidation enforces the order invariant: totalAmount
// equals the sum of price*quantity over the items. Amounts are integer
// minor-currency units, so the comparison is exact.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(domain.CreateOrderRequest)
	if sum := req.ItemsTotal(); sum != req.TotalAmount {
		sl.ReportError(req.TotalAmount, "totalAmount", "TotalAmount", "amount_match_items",
			fmt.Sprintf("items sum %d != totalAmount %d", sum, req.TotalAmount))
	}
}

// Check runs validation and converts failures into the domain error
// type, for callers outside an HTTP handler.
func Check(v *validatorv10.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	return &domain.ValidationError{Fields: errorsToMap(err)}
}

func errorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
