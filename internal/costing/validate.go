package costing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Decimals reach the validations as their exact string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	for tag, cmp := range map[string]func(d, bound decimal.Decimal) bool{
		"dgte": decimal.Decimal.GreaterThanOrEqual,
		"dlte": decimal.Decimal.LessThanOrEqual,
	} {
		if err := v.RegisterValidation(tag, decimalBound(cmp)); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// decimalBound compares a decimal field against the tag parameter without leaving decimal arithmetic.
func decimalBound(cmp func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return cmp(d, bound)
	}
}

var tagSymbols = map[string]string{
	"gte":  ">=",
	"dgte": ">=",
	"dlte": "<=",
}

// Validate checks the configuration's ranges: money and volumes are non-negative,
// fee percentages and the wholesale distribution share lie in [0,1].
func (c PricingConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		op, ok := tagSymbols[fe.Tag()]
		if !ok {
			op = fe.Tag()
		}
		fields = append(fields, fmt.Sprintf("%s must be %s %s", fe.Namespace(), op, fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, "; "))
}

// Validate checks the lot's quantity invariants.
func (l PurchaseLot) Validate() error {
	switch {
	case l.QuantityAddedGrams.IsNegative():
		return fmt.Errorf("%w: lot %d quantity added %s is negative", ErrInvalidLot, l.ID, l.QuantityAddedGrams)
	case l.QuantityRemainingGrams.IsNegative():
		return fmt.Errorf("%w: lot %d quantity remaining %s is negative", ErrInvalidLot, l.ID, l.QuantityRemainingGrams)
	case l.QuantityRemainingGrams.GreaterThan(l.QuantityAddedGrams):
		return fmt.Errorf("%w: lot %d remaining %s exceeds added %s", ErrInvalidLot, l.ID, l.QuantityRemainingGrams, l.QuantityAddedGrams)
	case l.ItemCost.IsNegative():
		return fmt.Errorf("%w: lot %d item cost %s is negative", ErrInvalidLot, l.ID, l.ItemCost)
	case l.OrderShippingCost.IsNegative():
		return fmt.Errorf("%w: lot %d shipping cost %s is negative", ErrInvalidLot, l.ID, l.OrderShippingCost)
	}
	return nil
}

// Validate checks that the snapshot is structurally usable: every recipe line resolves to an
// ingredient, every lot holds its invariants and the pricing configuration is in range.
func (s Snapshot) Validate() error {
	for _, m := range s.Materials {
		if m.Item == nil {
			return fmt.Errorf("%w: recipe line for product %d references missing ingredient %d",
				ErrInvalidReference, m.Line.ProductID, m.Line.InventoryItemID)
		}
		if m.Line.QuantityGrams.IsNegative() {
			return fmt.Errorf("%w: quantity for %q is negative", ErrInvalidRecipe, m.Item.Name)
		}
		for _, lot := range m.Lots {
			if err := lot.Validate(); err != nil {
				return err
			}
		}
	}
	return s.Product.Pricing.Validate()
}
