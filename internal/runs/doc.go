// Package runs persists a journal of pipeline runs in SQLite.
//
// Every invocation of the pipeline records a run row keyed by its UUID,
// advancing through stage statuses until it completes or fails. The journal
// is what `descant runs` lists and what post-mortem debugging starts from.
package runs
