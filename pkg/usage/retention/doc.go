// Package retention prunes usage records older than the retention period on
// a cron schedule.
package retention
