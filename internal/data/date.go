package data

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")

// Date is a calendar date with no time component. It marshals to the
// YYYY-MM-DD form used throughout the API and maps to a SQL DATE column.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDateFormat
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return ErrInvalidDateFormat
	}
	d.Time = t
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src interface{}) error {
	switch src := src.(type) {
	case time.Time:
		d.Time = src
		return nil
	case []byte:
		return d.parse(string(src))
	case string:
		return d.parse(src)
	default:
		return fmt.Errorf("unsupported scan type for Date: %T", src)
	}
}

func (d *Date) parse(s string) error {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
