package gotemplate

import (
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var filtersOnce sync.Once

func registerSiteFilters() {
	filtersOnce.Do(func() {
		register("trim", filterTrim)
		register("telhref", filterTelHref)
		register("money", filterMoney)
	})
}

func register(name string, fn pongo2.FilterFunction) {
	if !pongo2.FilterExists(name) {
		_ = pongo2.RegisterFilter(name, fn)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterTelHref keeps the digits (and a leading +) of a display phone number
// so it can be used in a tel: link.
func filterTelHref(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(TelHref(in.String())), nil
}

// TelHref strips everything but digits and a leading plus sign.
func TelHref(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// filterMoney formats whole dollars with thousands separators: 1200 -> $1,200.
func filterMoney(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(Money(in.Integer())), nil
}

// Money formats amount as whole dollars with thousands separators.
func Money(amount int) string {
	if amount < 0 {
		return "-$" + Thousands(-amount)
	}
	return "$" + Thousands(amount)
}

// Thousands groups the digits of n in threes: 1100 -> 1,100.
func Thousands(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
