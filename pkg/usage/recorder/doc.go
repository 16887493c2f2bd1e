// Package recorder writes usage records asynchronously.
//
// Record never blocks the request path for longer than WriteTimeout: records
// are queued on a buffered channel and written by a single worker. When the
// queue stays full for WriteTimeout the record is dropped and counted.
// Close drains the queue before returning.
package recorder
