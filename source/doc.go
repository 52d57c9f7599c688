// Package source defines where the matcher reads users and events from.
//
// A Source hands out independent connections. Serial strategies use one
// connection for the whole run; the multicore strategy opens one per page
// so page workers never share a handle.
//
// Two implementations are provided: Memory, for tests and freshly
// generated data, and Table, which reads block-compressed mask tables from
// any blobstore.Store.
package source
