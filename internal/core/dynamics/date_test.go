package dynamics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDate verifies lenient parsing of wire dates.
func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Date
	}{
		{"WireDate", "2024-03-15", NewDate(2024, time.March, 15)},
		{"Sentinel", "0001-01-01", Date{}},
		{"Empty", "", Date{}},
		{"Null", "null", Date{}},
		{"Whitespace", "  2024-03-15  ", NewDate(2024, time.March, 15)},
		{"RFC3339", "2024-03-15T10:30:00Z", NewDate(2024, time.March, 15)},
		{"Garbage", "not-a-date", Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestDate_Valid verifies that only set dates report as valid.
func TestDate_Valid(t *testing.T) {
	assert.False(t, Date{}.Valid())
	assert.False(t, ParseDate("0001-01-01").Valid())
	assert.True(t, NewDate(2024, time.January, 2).Valid())
}

// TestDate_String verifies string rendering of set and unset dates.
func TestDate_String(t *testing.T) {
	assert.Equal(t, "2024-03-15", NewDate(2024, time.March, 15).String())
	assert.Equal(t, "", Date{}.String())
}

// TestDate_MarshalJSON verifies that unset dates marshal to null, never the sentinel.
func TestDate_MarshalJSON(t *testing.T) {
	type payload struct {
		ShipmentDate Date `json:"shipmentDate"`
	}

	b, err := json.Marshal(payload{ShipmentDate: NewDate(2024, time.March, 15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shipmentDate":"2024-03-15"}`, string(b))

	b, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shipmentDate":null}`, string(b))
}

// TestDate_UnmarshalJSON verifies sentinel and null inputs decode to the zero date.
func TestDate_UnmarshalJSON(t *testing.T) {
	type payload struct {
		OrderDate Date `json:"Order_Date"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"Order_Date":"2024-06-01"}`), &p))
	assert.Equal(t, NewDate(2024, time.June, 1), p.OrderDate)

	require.NoError(t, json.Unmarshal([]byte(`{"Order_Date":"0001-01-01"}`), &p))
	assert.False(t, p.OrderDate.Valid())

	require.NoError(t, json.Unmarshal([]byte(`{"Order_Date":null}`), &p))
	assert.False(t, p.OrderDate.Valid())
}

// TestDate_DaysSince verifies day spans, including same-day and negative spans.
func TestDate_DaysSince(t *testing.T) {
	ordered := NewDate(2024, time.March, 10)
	shipped := NewDate(2024, time.March, 15)

	assert.Equal(t, 5, shipped.DaysSince(ordered))
	assert.Equal(t, 0, ordered.DaysSince(ordered))
	assert.Equal(t, -5, ordered.DaysSince(shipped))
}

// TestDate_Comparisons verifies the on-or-before and on-or-after helpers.
func TestDate_Comparisons(t *testing.T) {
	early := NewDate(2024, time.March, 10)
	late := NewDate(2024, time.March, 15)

	assert.True(t, early.OnOrBefore(late))
	assert.True(t, early.OnOrBefore(early))
	assert.False(t, late.OnOrBefore(early))

	assert.True(t, late.OnOrAfter(early))
	assert.True(t, late.OnOrAfter(late))
	assert.False(t, early.OnOrAfter(late))
}

// TestDate_AddDays verifies day arithmetic across month boundaries.
func TestDate_AddDays(t *testing.T) {
	d := NewDate(2024, time.March, 30)

	assert.Equal(t, NewDate(2024, time.April, 1), d.AddDays(2))
	assert.Equal(t, NewDate(2024, time.March, 29), d.AddDays(-1))
}

// TestDateOf verifies truncation of a timestamp to its UTC calendar date.
func TestDateOf(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 23, 45, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2024, time.March, 15), DateOf(ts))
}
