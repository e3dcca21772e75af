// Package quotient implements a quotient filter, an approximate
// membership structure that answers "was this probably inserted?"
// with a bounded false positive rate and no false negatives.
//
// A fingerprint of width W is split into a quotient (the high Q bits,
// the element's home slot index) and a remainder (the low W-Q bits,
// the value physically stored). All remainders sharing a quotient form
// a run; adjacent runs with no gap form a cluster. Linear probing
// displaces remainders past their home slot, and three metadata bits
// per slot (occupied, continuation, shifted) recover which run a
// displaced remainder belongs to. A fourth bit marks lazily deleted
// slots, which stay in place until a resize or merge rebuilds the
// table.
//
// Unlike a Bloom filter, a quotient filter supports deletion, doubles
// in place via resize, and merges with another filter of equal size.
//
// Filters are not safe for concurrent use.
package quotient
