// Package nostrlog implements the repository ports on top of a set of nostr
// relays used as a replicated append-only event log.
//
// Write paths publish signed events; read paths fan out queries to every
// configured relay, merge whatever events come back and reconstruct the
// aggregate with the domain reconstructor. Partial relay availability is the
// normal operating mode: a read that reaches only some relays returns a
// possibly incomplete aggregate rather than an error, and concurrent writers
// can overwrite each other's root snapshots without detection.
//
// Event kinds: 35000 delivery root, 35001 bid, 35002..35006 status
// transitions (one kind per target status), 35009 profile. Root and profile
// events carry a "d" deduplication tag with the entity id; bid and status
// events carry a "delivery_id" tag.
package nostrlog
