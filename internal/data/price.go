package data

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPriceFormat = errors.New("price must be a decimal number")

// Price is a monetary amount held in cents. It accepts both JSON numbers and
// numeric strings on input, always renders the two-decimal string form, and
// maps to a NUMERIC(8,2) column.
type Price int64

// MaxPrice is the largest amount a NUMERIC(8,2) column can hold: 999999.99.
const MaxPrice Price = 99999999

func (p Price) String() string {
	n := int64(p)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%d.%02d", sign, n/100, n%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	return p.parse(strings.Trim(s, `"`))
}

func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Price) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return p.parse(string(src))
	case string:
		return p.parse(src)
	case float64:
		*p = Price(math.Round(src * 100))
		return nil
	case int64:
		*p = Price(src * 100)
		return nil
	default:
		return fmt.Errorf("unsupported scan type for Price: %T", src)
	}
}

func (p *Price) parse(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ErrInvalidPriceFormat
	}
	*p = Price(math.Round(f * 100))
	return nil
}
