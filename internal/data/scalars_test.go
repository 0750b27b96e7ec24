package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		d := NewDate(1999, time.September, 9)
		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"1999-09-09"`, string(out))
	})

	t.Run("marshal nil pointer", func(t *testing.T) {
		type payload struct {
			Birthdate *Date `json:"birthdate"`
		}
		out, err := json.Marshal(payload{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"birthdate":null}`, string(out))
	})

	t.Run("unmarshal", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"1999-09-09"`), &d))
		assert.Equal(t, NewDate(1999, time.September, 9), d)
	})

	t.Run("unmarshal rejects other layouts", func(t *testing.T) {
		var d Date
		assert.ErrorIs(t, json.Unmarshal([]byte(`"09/09/1999"`), &d), ErrInvalidDateFormat)
		assert.ErrorIs(t, json.Unmarshal([]byte(`19990909`), &d), ErrInvalidDateFormat)
	})
}

func TestDateScan(t *testing.T) {
	want := NewDate(1999, time.September, 9)

	var fromTime Date
	require.NoError(t, fromTime.Scan(want.Time))
	assert.Equal(t, want, fromTime)

	var fromBytes Date
	require.NoError(t, fromBytes.Scan([]byte("1999-09-09")))
	assert.Equal(t, want, fromBytes)

	var fromString Date
	require.NoError(t, fromString.Scan("1999-09-09"))
	assert.Equal(t, want, fromString)

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestPriceJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		tests := []struct {
			price Price
			want  string
		}{
			{price: 10000, want: `"100.00"`},
			{price: 9990, want: `"99.90"`},
			{price: 5, want: `"0.05"`},
			{price: MaxPrice, want: `"999999.99"`},
		}
		for _, tt := range tests {
			out, err := json.Marshal(tt.price)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		}
	})

	t.Run("unmarshal number and string forms", func(t *testing.T) {
		tests := []struct {
			in   string
			want Price
		}{
			{in: `100`, want: 10000},
			{in: `100.0`, want: 10000},
			{in: `100.00`, want: 10000},
			{in: `"100.00"`, want: 10000},
			{in: `99.99`, want: 9999},
		}
		for _, tt := range tests {
			var p Price
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p), tt.in)
			assert.Equal(t, tt.want, p, tt.in)
		}
	})

	t.Run("unmarshal rejects non-numeric input", func(t *testing.T) {
		var p Price
		assert.ErrorIs(t, json.Unmarshal([]byte(`"lots"`), &p), ErrInvalidPriceFormat)
	})
}

func TestPriceScan(t *testing.T) {
	var fromBytes Price
	require.NoError(t, fromBytes.Scan([]byte("100.00")))
	assert.Equal(t, Price(10000), fromBytes)

	var fromString Price
	require.NoError(t, fromString.Scan("99.90"))
	assert.Equal(t, Price(9990), fromString)

	var fromFloat Price
	require.NoError(t, fromFloat.Scan(100.0))
	assert.Equal(t, Price(10000), fromFloat)

	var p Price
	assert.Error(t, p.Scan(struct{}{}))
}
