// Package interest implements time-value-of-money arithmetic under simple,
// discrete and continuous compounding.
package interest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/meenmo/dpm"
)

// Kind selects the compounding family.
type Kind string

const (
	Simple     Kind = "Simple"
	Discrete   Kind = "Discrete"
	Continuous Kind = "Continuous"
)

// Frequency is the number of compounding periods per year.
type Frequency int

const (
	Weekly     Frequency = 52
	Monthly    Frequency = 12
	BiMonthly  Frequency = 6
	Quarterly  Frequency = 4
	TriAnnual  Frequency = 3
	SemiAnnual Frequency = 2
	Annual     Frequency = 1
)

// Frequencies lists every supported discrete frequency.
var Frequencies = []Frequency{Weekly, Monthly, BiMonthly, Quarterly, TriAnnual, SemiAnnual, Annual}

// ParseFrequency validates a periods-per-year count.
func ParseFrequency(perYear int) (Frequency, error) {
	for _, f := range Frequencies {
		if int(f) == perYear {
			return f, nil
		}
	}
	return 0, fmt.Errorf("interest: %w: compounding frequency %d", dpm.ErrInvalidConvention, perYear)
}

func (f Frequency) String() string {
	switch f {
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case BiMonthly:
		return "BiMonthly"
	case Quarterly:
		return "Quarterly"
	case TriAnnual:
		return "TriAnnual"
	case SemiAnnual:
		return "SemiAnnual"
	case Annual:
		return "Annual"
	}
	return "Frequency(" + strconv.Itoa(int(f)) + ")"
}

// Convention is a compounding convention. Build one with SimpleRate,
// DiscreteRate or ContinuousRate, or check a literal with Validate.
type Convention struct {
	Kind      Kind
	Frequency Frequency
}

// SimpleRate returns the simple-interest convention.
func SimpleRate() Convention { return Convention{Kind: Simple} }

// ContinuousRate returns the continuously compounded convention.
func ContinuousRate() Convention { return Convention{Kind: Continuous} }

// DiscreteRate returns periodic compounding at f periods per year.
func DiscreteRate(f Frequency) (Convention, error) {
	if _, err := ParseFrequency(int(f)); err != nil {
		return Convention{}, err
	}
	return Convention{Kind: Discrete, Frequency: f}, nil
}

// ParseConvention accepts "simple", "continuous", a frequency name such as
// "quarterly", or "discrete:N".
func ParseConvention(s string) (Convention, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "", "simple":
		return SimpleRate(), nil
	case "continuous":
		return ContinuousRate(), nil
	}
	if rest, ok := strings.CutPrefix(key, "discrete:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Convention{}, fmt.Errorf("interest: %w: %q", dpm.ErrInvalidConvention, s)
		}
		return DiscreteRate(Frequency(n))
	}
	for _, f := range Frequencies {
		if strings.EqualFold(f.String(), key) {
			return DiscreteRate(f)
		}
	}
	return Convention{}, fmt.Errorf("interest: %w: %q", dpm.ErrInvalidConvention, s)
}

// Validate rejects unknown kinds and unsupported discrete frequencies.
func (c Convention) Validate() error {
	switch c.Kind {
	case Simple, Continuous:
		return nil
	case Discrete:
		_, err := ParseFrequency(int(c.Frequency))
		return err
	}
	return fmt.Errorf("interest: %w: compounding %q", dpm.ErrInvalidConvention, c.Kind)
}

func (c Convention) String() string {
	if c.Kind == Discrete {
		return "Discrete(" + c.Frequency.String() + ")"
	}
	return string(c.Kind)
}

// FV is the future value of one unit over n years at rate r. An invalid
// convention yields NaN.
func (c Convention) FV(n, r float64) float64 {
	switch c.Kind {
	case Simple:
		return 1 + r*n
	case Discrete:
		m := float64(c.Frequency)
		if m <= 0 {
			return math.NaN()
		}
		return math.Pow(1+r/m, n*m)
	case Continuous:
		return math.Exp(r * n)
	}
	return math.NaN()
}

// PV is the present value of one unit due in n years.
func (c Convention) PV(n, r float64) float64 {
	if c.Kind == Simple {
		return 1 / c.FV(n, r)
	}
	return c.FV(-n, r)
}

// Interest is the accrued interest per unit over n years.
func (c Convention) Interest(n, r float64) float64 {
	return c.FV(n, r) - 1
}

// Rate is the rate implied by a present value pv over n years.
func (c Convention) Rate(n, pv float64) float64 {
	switch c.Kind {
	case Simple:
		return (1/pv - 1) / n
	case Discrete:
		m := float64(c.Frequency)
		if m <= 0 {
			return math.NaN()
		}
		return (math.Pow(1/pv, 1/(n*m)) - 1) * m
	case Continuous:
		return math.Log(1/pv) / n
	}
	return math.NaN()
}

// Convert re-expresses rate r, quoted under from over n years, under to.
func Convert(from, to Convention, n, r float64) float64 {
	return to.Rate(n, from.PV(n, r))
}
