// Package main provides the entry point for the GoMarket backend. It runs
// a Fiber web server exposing the shop API: accounts with one-time
// passcode verification, a policy based permission model, catalog, carts,
// orders with coupon support, payments through a gateway boundary,
// wishlists and notifications. Persistence uses gorm, session and passcode
// state lives in a key-value store.
package main
