/*

Package ballot defines the interfaces shared by the ballot application:
storage, transactions, handlers, identities and context values. It also
contains helpers to turn handler results and errors into abci responses.

The chairperson ballot itself lives in x/voting. This package only provides
the plumbing that lets it run as a deterministic, single-writer ledger.

*/

package ballot
