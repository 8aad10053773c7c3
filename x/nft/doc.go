/*
Package nft provides a core of a Non-fungible token implementation (NFT).

A Ledger keeps the owner of every token, the operator approvals granted by
owners and enumerable lists of tokens, globally and per owner (see
BalanceIndex). Each token may carry arbitrary attributes (see
AttributeStore).

The ledger does not decide who may mint. This is a policy of the contract
using it.
*/
package nft
