// Package votingengine owns governance proposals and holder voting: proposal
// creation, one-vote-per-holder ballots, and majority-quorum resolution. The
// quorum denominator is the live holder count read from the membership
// registry at vote time, never a snapshot taken at proposal creation.
package votingengine
