package validation

import (
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// a discount must actually lower the price
	v.RegisterStructValidation(productStructValidation, ProductRequest{})

	return v
}

func productStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(ProductRequest)

	if req.DiscountPrice > 0 && req.DiscountPrice >= req.Price {
		sl.ReportError(req.DiscountPrice, "discountPrice", "DiscountPrice", "discount_below_price",
			fmt.Sprintf("discount %.2f >= price %.2f", req.DiscountPrice, req.Price))
	}
}
