// Package settings provides the durable hierarchical settings store.
//
// Settings live in a single XML document. Every element without child
// elements is a leaf whose text is the value; every other element is a
// section. Reads are served from an in-memory trie that always mirrors
// the last Set, so callers never observe the write-back delay.
//
// Writes mark the store dirty. The owner flushes with SaveDeferred on a
// periodic tick (at most once per flush interval) or SaveImmediate when
// the change must survive a crash, such as saved network credentials.
//
// A missing or corrupt file is not an error: the default template is
// copied over it and loading continues. Keys present in the template but
// missing from the live document are merged in on every load.
package settings
