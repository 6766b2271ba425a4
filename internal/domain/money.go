package domain

import "fmt"

// MilliCents represents one thousandth of a cent in USD. Provider costs are
// tracked in milli-cents so per-call estimates survive integer accounting
// without rounding loss.
type MilliCents int64

// Cents converts to whole cents, truncating toward zero.
func (m MilliCents) Cents() int64 { return int64(m) / 1000 }

// Dollars converts milli-cents to dollars for display.
func (m MilliCents) Dollars() float64 { return float64(m) / 100000.0 }

// String formats the amount as dollars with five decimal places.
func (m MilliCents) String() string { return fmt.Sprintf("$%.5f", m.Dollars()) }
