// Package routes classifies request paths before any stateful middleware runs.
//
// Every inbound request falls into exactly one of three classes: Public
// (no session required), ProtectedAPI (JSON API surface) or ProtectedPage
// (browser-facing pages). Static assets are recognized separately so the
// pipeline can skip them entirely.
//
// Classification is pure prefix/pattern matching with no side effects, which
// is why it runs first: suspicious-pattern scanning, rate limiting and
// session resolution all cost something, and none of it should be paid for
// a stylesheet.
//
// # Usage
//
//	classifier := routes.NewClassifier()
//	switch classifier.Classify(r.URL.Path) {
//	case routes.Public:
//	    // no session gate
//	case routes.ProtectedAPI, routes.ProtectedPage:
//	    // identity required
//	}
package routes
