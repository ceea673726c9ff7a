package provider

import (
	"github.com/mesh-intelligence/stockroom/internal/notify"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Result is the cursor returned by Query together with the identifier it
// was read from, so the caller can watch for changes that invalidate it.
type Result struct {
	types.Cursor
	uri      string
	notifier *notify.Notifier
}

// NotificationURI returns the identifier the query was addressed to.
func (r *Result) NotificationURI() string {
	return r.uri
}

// Watch subscribes to changes affecting the query's identifier. The
// subscription outlives the cursor; close it separately.
func (r *Result) Watch(descendants bool) *notify.Subscription {
	return r.notifier.Subscribe(r.uri, descendants)
}

// Products drains the result into a slice and closes it.
func (r *Result) Products() ([]*types.Product, error) {
	return types.Collect(r.Cursor)
}
