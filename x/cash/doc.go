/*
Package cash keeps track of the free balance of every account and moves
funds between accounts on behalf of other extensions.

There is no logic in the balances themselves, except that a balance may
never go below zero. Simple and safe.
*/
package cash
