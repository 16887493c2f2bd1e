// Package usage defines the usage journal: one record per admitted story
// request, written after the request reaches a terminal outcome.
//
// # Overview
//
// The journal is an audit trail. It is never read back into the admission
// ledger, so a restart still starts with an empty ledger while the journal
// keeps the history for reporting.
//
// Subpackages:
//   - storage: memory and SQLite backends implementing Storage
//   - recorder: asynchronous writer used on the request path
//   - retention: cron-scheduled pruning of old records
//   - export: JSON and CSV output for the CLI
//
// # Usage
//
//	store, err := storage.Open(cfg.Usage)
//	if err != nil {
//	    return err
//	}
//	rec := recorder.New(store, recorder.Config{BufferSize: 1000, WriteTimeout: 5 * time.Second})
//	defer rec.Close()
//
//	rec.Record(ctx, &usage.Record{
//	    RequestID:  requestID,
//	    ClientKey:  clientKey,
//	    Tier:       "openai",
//	    Outcome:    usage.OutcomeSuccess,
//	    TokensUsed: 812,
//	})
package usage
