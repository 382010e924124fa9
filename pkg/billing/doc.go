// Package billing connects the payment provider to the plan tier data the
// access guards read. Providers are abstracted behind the Provider
// interface; the shipped implementation uses Paddle's hosted checkout and
// customer portal, so no card data ever touches this codebase.
//
// The Service is the single writer of merchant subscription rows: webhook
// events (subscription created/updated/cancelled, payment failed/
// recovered) are verified, normalized and applied to the store, the tier
// cache is invalidated, and merchants are notified of plan changes.
package billing
