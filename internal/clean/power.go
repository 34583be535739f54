package clean

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/KaramelBytes/sessionlens-cli/internal/stats"
)

var (
	errNotPositive = errors.New("box-cox requires strictly positive values")
	errConstant    = errors.New("constant data")
	errNonFinite   = errors.New("transform produced non-finite values")
)

// lambdaLimit bounds the λ search; the likelihood is treated as -Inf outside it.
const lambdaLimit = 5.0

// BoxCox fits λ by maximum likelihood and returns the transformed values.
func BoxCox(x []float64) ([]float64, float64, error) {
	for _, v := range x {
		if !(v > 0) {
			return nil, 0, errNotPositive
		}
	}
	if isConstant(x) {
		return nil, 0, errConstant
	}
	var sumLog float64
	for _, v := range x {
		sumLog += math.Log(v)
	}
	n := float64(len(x))
	llf := func(lmb float64) float64 {
		return (lmb-1)*sumLog - n/2*math.Log(stats.PopVariance(boxCoxApply(x, lmb)))
	}
	lmb, err := maximize(llf)
	if err != nil {
		return nil, 0, fmt.Errorf("box-cox: %w", err)
	}
	y := boxCoxApply(x, lmb)
	if err := checkOutput(y); err != nil {
		return nil, lmb, fmt.Errorf("box-cox: %w", err)
	}
	return y, lmb, nil
}

// YeoJohnson fits λ by maximum likelihood and returns the transformed values.
// Unlike BoxCox it accepts zero and negative input.
func YeoJohnson(x []float64) ([]float64, float64, error) {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, errNonFinite
		}
	}
	if isConstant(x) {
		return nil, 0, errConstant
	}
	var sumSignLog float64
	for _, v := range x {
		if v >= 0 {
			sumSignLog += math.Log1p(v)
		} else {
			sumSignLog -= math.Log1p(-v)
		}
	}
	n := float64(len(x))
	llf := func(lmb float64) float64 {
		return -n/2*math.Log(stats.PopVariance(yeoJohnsonApply(x, lmb))) + (lmb-1)*sumSignLog
	}
	lmb, err := maximize(llf)
	if err != nil {
		return nil, 0, fmt.Errorf("yeo-johnson: %w", err)
	}
	y := yeoJohnsonApply(x, lmb)
	if err := checkOutput(y); err != nil {
		return nil, lmb, fmt.Errorf("yeo-johnson: %w", err)
	}
	return y, lmb, nil
}

func boxCoxApply(x []float64, lmb float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		if math.Abs(lmb) < 1e-12 {
			y[i] = math.Log(v)
		} else {
			y[i] = (math.Pow(v, lmb) - 1) / lmb
		}
	}
	return y
}

func yeoJohnsonApply(x []float64, lmb float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v >= 0 && math.Abs(lmb) < 1e-12:
			y[i] = math.Log1p(v)
		case v >= 0:
			y[i] = (math.Pow(v+1, lmb) - 1) / lmb
		case math.Abs(lmb-2) < 1e-12:
			y[i] = -math.Log1p(-v)
		default:
			y[i] = -(math.Pow(1-v, 2-lmb) - 1) / (2 - lmb)
		}
	}
	return y
}

// maximize finds the λ with the largest log-likelihood, starting from 1.
func maximize(llf func(float64) float64) (float64, error) {
	p := optimize.Problem{
		Func: func(x []float64) float64 {
			lmb := x[0]
			if math.Abs(lmb) > lambdaLimit {
				return math.Inf(1)
			}
			v := llf(lmb)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return math.Inf(1)
			}
			return -v
		},
	}
	res, err := optimize.Minimize(p, []float64{1}, nil, &optimize.NelderMead{})
	if res == nil {
		return 0, fmt.Errorf("optimize: %w", err)
	}
	lmb := res.X[0]
	if math.IsNaN(lmb) || math.IsInf(res.F, 0) {
		return 0, fmt.Errorf("optimize: no finite likelihood (%v)", err)
	}
	return lmb, nil
}

func isConstant(x []float64) bool {
	if len(x) < 2 {
		return true
	}
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

func checkOutput(y []float64) error {
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNonFinite
		}
	}
	if isConstant(y) {
		return errConstant
	}
	return nil
}
