package strategy

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Range is the investment grid: Min, Min+Step, ... up to and including the
// last point not above Max.
type Range struct {
	Min, Max, Step float64
}

func (r Range) Validate() error {
	for _, v := range []float64{r.Min, r.Max, r.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound in %+v", ErrEmptyRange, r)
		}
	}
	if r.Step <= 0 || r.Min > r.Max {
		return fmt.Errorf("%w: %+v", ErrEmptyRange, r)
	}
	return nil
}

// Each calls fn for every grid point in ascending order and stops at the
// first error. Points are stepped in decimal so that 0.1 + 2*0.1 lands on 0.3.
func (r Range) Each(fn func(investment float64) error) error {
	if err := r.Validate(); err != nil {
		return err
	}
	lo, hi, step := decimal.NewFromFloat(r.Min), decimal.NewFromFloat(r.Max), decimal.NewFromFloat(r.Step)
	for q := lo; q.LessThanOrEqual(hi); q = q.Add(step) {
		f, _ := q.Float64()
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// Optimize evaluates every grid point and keeps the one with the strictly
// highest percent; ties keep the earliest. A failed evaluation aborts.
func (c *Calculator) Optimize(t Trade, depth Depth, px Prices, r Range) (Result, error) {
	var (
		best  Result
		found bool
	)
	err := r.Each(func(investment float64) error {
		res, err := c.Calculate(investment, t, depth, px)
		if err != nil {
			return err
		}
		if !found || res.Percent > best.Percent {
			best, found = res, true
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return best, nil
}
