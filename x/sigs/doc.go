/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction.

Every verified signature adds the condition of its public key to the
context, where handlers read it back through Authenticate.

Each public key has a sequence stored under the "sigs" bucket. A signature
is made for the current sequence of its key, and accepting it increments
the sequence. The state can be queried under "/auth".
*/
package sigs
