//go:build mage

// Package main provides build targets for the stockroom project using Mage.
//
// Usage:
//
//	mage build          Compile stockroom binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests with -short
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write coverage.out and print per-function coverage
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install stockroom to GOPATH/bin
//	mage stats          Print Go LOC counts
package main
