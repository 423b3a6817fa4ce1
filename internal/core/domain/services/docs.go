// Package services provides stateless domain services that operate across
// aggregates. The Reconstructor rebuilds Delivery and Profile aggregates
// from unordered, possibly duplicated event sets pulled from the replicated
// log, producing the same result for any arrival order.
package services
