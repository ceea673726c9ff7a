// Package provider is the single entry point to stored products. Each
// request is classified by resource identifier, validated when it mutates,
// executed against the store and, on success, announced to observers.
package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/notify"
	"github.com/mesh-intelligence/stockroom/internal/resource"
	"github.com/mesh-intelligence/stockroom/internal/validate"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Provider composes the router, validation pipeline, store and notifier.
type Provider struct {
	store    types.Store
	router   *resource.Router
	pipeline *validate.Pipeline
	notifier *notify.Notifier
	log      *zap.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithRouter replaces the default product router.
func WithRouter(r *resource.Router) Option {
	return func(p *Provider) { p.router = r }
}

// WithNotifier shares a notifier with other components.
func WithNotifier(n *notify.Notifier) Option {
	return func(p *Provider) { p.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Provider) {
		if log != nil {
			p.log = log
		}
	}
}

// New returns a Provider over store.
func New(store types.Store, opts ...Option) *Provider {
	p := &Provider{
		store:    store,
		router:   resource.NewRouter(types.Authority),
		pipeline: validate.New(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = notify.New(notify.WithLogger(p.log))
	}
	return p
}

// Notifier returns the notifier changes are published on.
func (p *Provider) Notifier() *notify.Notifier {
	return p.notifier
}

// Query reads the products addressed by uri. For an Item identifier the
// caller's selection is ignored and the row is selected by id.
func (p *Provider) Query(uri string, q types.Query) (*Result, error) {
	target, err := p.router.Classify(uri)
	if err != nil {
		return nil, err
	}

	sel := q.Selection
	if target.Kind == resource.KindItem {
		sel = types.ByID(target.ID)
	}

	cur, err := p.store.Query(sel, q.Columns, q.SortOrder)
	if err != nil {
		p.log.Warn("query failed", zap.String("uri", uri), zap.Error(err))
		return nil, err
	}
	return &Result{Cursor: cur, uri: uri, notifier: p.notifier}, nil
}

// Insert creates a product from values. Only the Collection identifier
// accepts inserts. It returns the Item identifier of the new product.
func (p *Provider) Insert(uri string, values types.Values) (string, error) {
	target, err := p.router.Classify(uri)
	if err != nil {
		return "", err
	}
	if target.Kind != resource.KindCollection {
		return "", fmt.Errorf("%w: insert into %q", types.ErrUnsupportedResource, uri)
	}

	clean, err := p.pipeline.Strict(values)
	if err != nil {
		p.log.Warn("insert rejected", zap.String("uri", uri), zap.Error(err))
		return "", err
	}

	id, err := p.store.Insert(clean)
	if err != nil {
		p.log.Warn("insert failed", zap.String("uri", uri), zap.Error(err))
		return "", err
	}

	p.notifier.Publish(uri, notify.OpInsert)
	p.log.Debug("product inserted", zap.Int64("id", id))
	return types.ItemURI(id), nil
}

// Update applies values to the products addressed by uri and returns the
// number of rows changed. An empty values map is a no-op that returns 0
// without validating or touching storage, for Item identifiers too. sel is
// honored only for the Collection identifier.
func (p *Provider) Update(uri string, values types.Values, sel types.Selection) (int64, error) {
	target, err := p.router.Classify(uri)
	if err != nil {
		return 0, err
	}
	if target.Kind == resource.KindItem {
		sel = types.ByID(target.ID)
	}

	if len(values) == 0 {
		return 0, nil
	}

	clean, err := p.pipeline.Partial(values)
	if err != nil {
		p.log.Warn("update rejected", zap.String("uri", uri), zap.Error(err))
		return 0, err
	}

	rows, err := p.store.Update(sel, clean)
	if err != nil {
		p.log.Warn("update failed", zap.String("uri", uri), zap.Error(err))
		return 0, err
	}

	if rows != 0 {
		p.notifier.Publish(uri, notify.OpUpdate)
	}
	p.log.Debug("products updated", zap.String("uri", uri), zap.Int64("rows", rows))
	return rows, nil
}

// Delete removes the products addressed by uri and returns the count. sel
// is honored only for the Collection identifier; the empty selection on the
// collection removes every product.
func (p *Provider) Delete(uri string, sel types.Selection) (int64, error) {
	target, err := p.router.Classify(uri)
	if err != nil {
		return 0, err
	}
	if target.Kind == resource.KindItem {
		sel = types.ByID(target.ID)
	}

	rows, err := p.store.Delete(sel)
	if err != nil {
		p.log.Warn("delete failed", zap.String("uri", uri), zap.Error(err))
		return 0, err
	}

	if rows != 0 {
		p.notifier.Publish(uri, notify.OpDelete)
	}
	p.log.Debug("products deleted", zap.String("uri", uri), zap.Int64("rows", rows))
	return rows, nil
}

// TypeOf returns ContentListType for the Collection identifier and
// ContentItemType for an Item identifier.
func (p *Provider) TypeOf(uri string) (string, error) {
	target, err := p.router.Classify(uri)
	if err != nil {
		return "", err
	}
	switch target.Kind {
	case resource.KindCollection:
		return types.ContentListType, nil
	case resource.KindItem:
		return types.ContentItemType, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedResource, uri)
	}
}

// Subscribe registers an observer on uri after checking that the router
// recognizes it.
func (p *Provider) Subscribe(uri string, descendants bool) (*notify.Subscription, error) {
	if _, err := p.router.Classify(uri); err != nil {
		return nil, err
	}
	return p.notifier.Subscribe(uri, descendants), nil
}
