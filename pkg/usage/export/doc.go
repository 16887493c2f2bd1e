// Package export writes usage records as JSON or CSV.
package export
