// Package delivery provides domain entities and business logic for delivery
// management in the marketplace. It implements the Delivery aggregate root
// with lifecycle management, bidding and state transitions.
//
// The package includes:
//   - Delivery: The aggregate root that manages identity, endpoints, packages,
//     bids and lifecycle
//   - Status: A state machine that enforces valid delivery status transitions
//   - Bid: An immutable courier offer with a profile snapshot
//   - StatusUpdate: A log-only record consumed during reconstruction
//
// Key business rules:
//   - Deliveries must have a sender, validated endpoints, at least one package
//     and a positive offer amount
//   - Fields and bids are mutable only while the delivery is Open
//   - The accepted bid always references an id present in the bid list
//   - Completing a delivery with a signature-requiring package needs a signer
//     name
//
// The package follows Domain-Driven Design principles. Aggregates are value
// types reconstructed fresh per read from the event log, so no instance is
// shared across concurrent readers.
package delivery
