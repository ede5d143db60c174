/*
Package voting implements a single-chairperson ballot.

The chairperson creates the ballot with an ordered list of proposals and
grants voting rights. A voter with rights either votes for a proposal
directly or delegates to another voter. Delegation follows the chain of
delegates to its final voter: if that voter already voted, the weight is
tallied immediately, otherwise it is added to the final voter's weight and
counted when that voter acts.

Every unit of granted weight is therefore either counted for exactly one
proposal or held by exactly one voter that has not voted yet.
*/
package voting
