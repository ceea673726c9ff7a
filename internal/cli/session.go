package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/logger"
	"github.com/mesh-intelligence/stockroom/internal/notify"
	"github.com/mesh-intelligence/stockroom/internal/provider"
	"github.com/mesh-intelligence/stockroom/pkg/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// session is an open store with a provider in front of it. The caller
// must Close it.
type session struct {
	engine   types.Engine
	provider *provider.Provider
	log      *zap.Logger
}

// openSession resolves the data directory and opens the store. Interactive
// commands pass quiet so only warnings reach stderr.
func (a *app) openSession(quiet bool) (*session, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	build := logger.New
	if quiet {
		build = logger.Quiet
	}
	log, err := build(a.settings.Env)
	if err != nil {
		return nil, sysError(fmt.Errorf("build logger: %w", err))
	}

	engine := sqlite.NewBackend(log)
	cfg := types.Config{
		Backend: a.settings.Backend,
		DataDir: dataDir,
	}
	if err := engine.Open(cfg); err != nil {
		return nil, sysError(fmt.Errorf("open store: %w", err))
	}

	n := notify.New(notify.WithBuffer(a.settings.NotifyBuffer), notify.WithLogger(log))
	return &session{
		engine:   engine,
		provider: provider.New(engine, provider.WithNotifier(n), provider.WithLogger(log)),
		log:      log,
	}, nil
}

func (s *session) Close() error {
	err := s.engine.Close()
	_ = s.log.Sync()
	return err
}

// productView is the printed form of a product. The image is reported by
// size only.
type productView struct {
	ID            int64  `json:"id"`
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int64  `json:"quantity"`
	SupplierPhone string `json:"supplier_phone"`
	ImageBytes    int    `json:"image_bytes"`
}

func newProductView(p *types.Product) productView {
	return productView{
		ID:            p.ID,
		URI:           types.ItemURI(p.ID),
		Name:          p.Name,
		Price:         p.Price,
		Quantity:      p.Quantity,
		SupplierPhone: p.SupplierPhone,
		ImageBytes:    len(p.Image),
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
