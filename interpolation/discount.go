package interpolation

// DiscountFactorAt reads a discount-factor curve at year fraction xp. The
// valuation date itself discounts at par and a negative fraction (a cash
// flow already paid) contributes nothing.
func DiscountFactorAt(method Method, x, y []float64, xp float64) (float64, error) {
	if err := validate(method, x, y); err != nil {
		return 0, err
	}
	return discountFactorAt(method, x, y, xp)
}

// DiscountFactorsAt applies DiscountFactorAt to every query point.
func DiscountFactorsAt(method Method, x, y, xps []float64) ([]float64, error) {
	if err := validate(method, x, y); err != nil {
		return nil, err
	}
	out := make([]float64, len(xps))
	for i, xp := range xps {
		v, err := discountFactorAt(method, x, y, xp)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func discountFactorAt(method Method, x, y []float64, xp float64) (float64, error) {
	switch {
	case xp == 0:
		return 1, nil
	case xp < 0:
		return 0, nil
	}
	return interpolate(method, x, y, xp)
}
