package dto

// RangeQuery selects a reporting period: range=all|monthly|custom, with
// start and end required for custom. Dates accept RFC 3339, date-only or
// epoch milliseconds; a date-only end covers the whole day.
type RangeQuery struct {
	Range string `form:"range,default=all" validate:"omitempty,oneof=all monthly custom"`
	Start string `form:"start"`
	End   string `form:"end"`
}
