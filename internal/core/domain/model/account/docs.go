// Package account provides the Profile aggregate for marketplace
// participants. A profile is keyed by the participant's npub and tracks
// display information alongside the courier-side reputation, completed
// delivery count and lifetime earnings.
//
// Profiles for identities never seen before start at the default reputation
// of 4.5 with no history.
package account
