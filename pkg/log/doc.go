// Package log is a small wrapper around the standard library logger that
// gives every component of cari a named logger.
//
// Every line carries the component name as a `[name>]` marker so logs from
// the indexer, the HTTP layer and the terminal UI can be told apart with
// grep:
//
//	2025/01/02 15:04:05.000000 INFO [indexer>] indexed 42 documents
//
// Debug output is off by default. It can be enabled for everything with
// SetGlobalDebug (the --debug flag) or for a single component with
// EnableDebugFor.
//
//	idx := log.ForService("indexer")
//	idx.Infof("walking %s", root)
//	idx.Debugf("skipping %s: empty", path)
//
// SetOutput swaps the destination of every logger, including the ones that
// were already created. The terminal UI uses it to move logs into a file
// while the alternate screen is active; tests use it with a bytes.Buffer.
package log
