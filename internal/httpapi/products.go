package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stockroom/internal/provider"
	"github.com/mesh-intelligence/stockroom/internal/resource"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// ProductResponse is the JSON form of a product. The image is served
// separately.
type ProductResponse struct {
	ID            int64  `json:"id"`
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int64  `json:"quantity"`
	SupplierPhone string `json:"supplier_phone"`
	HasImage      bool   `json:"has_image"`
}

func newProductResponse(p *types.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		URI:           types.ItemURI(p.ID),
		Name:          p.Name,
		Price:         p.Price,
		Quantity:      p.Quantity,
		SupplierPhone: p.SupplierPhone,
		HasImage:      len(p.Image) > 0,
	}
}

// StockResponse reports a quantity after a stock adjustment.
type StockResponse struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

type productHandler struct {
	provider *provider.Provider
	logger   *zap.Logger
}

func newProductHandler(prov *provider.Provider, logger *zap.Logger) *productHandler {
	return &productHandler{provider: prov, logger: logger}
}

func (h *productHandler) RegisterRoutes(r chi.Router) {
	r.Route("/"+types.PathProducts, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
			r.Get("/image", h.Image)
			r.Post("/sell", h.Sell)
		})
	})
	r.Get("/changes", h.Changes)
}

// itemURI returns the Item identifier for the {id} path parameter. The
// provider rejects a malformed id.
func itemURI(r *http.Request) string {
	return types.CollectionURI + "/" + chi.URLParam(r, "id")
}

func itemID(r *http.Request) (int64, error) {
	id, err := resource.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", types.ErrUnsupportedResource, itemURI(r))
	}
	return id, nil
}

// sortOrder builds an ORDER BY clause from the sort and order query
// parameters. Only column names are accepted.
func sortOrder(r *http.Request) (string, error) {
	col := r.URL.Query().Get("sort")
	if col == "" {
		return "", nil
	}
	if !types.IsColumn(col) {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownColumn, col)
	}
	switch strings.ToLower(r.URL.Query().Get("order")) {
	case "", "asc":
		return col + " ASC", nil
	case "desc":
		return col + " DESC", nil
	default:
		return "", fmt.Errorf("%w: order %q", types.ErrInvalidFieldValue, r.URL.Query().Get("order"))
	}
}

// decodeValues reads a JSON object into a payload. A string image is
// base64-decoded.
func decodeValues(r *http.Request) (types.Values, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: body: %v", types.ErrInvalidFieldValue, err)
	}
	values := types.Values(body)
	if s, ok := values[types.ColumnImage].(string); ok {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, types.InvalidField(types.ColumnImage)
		}
		values[types.ColumnImage] = b
	}
	return values, nil
}

func (h *productHandler) List(w http.ResponseWriter, r *http.Request) {
	order, err := sortOrder(r)
	if err != nil {
		respondWithErr(w, err)
		return
	}

	res, err := h.provider.Query(types.CollectionURI, types.Query{SortOrder: order})
	if err != nil {
		respondWithErr(w, err)
		return
	}
	products, err := res.Products()
	if err != nil {
		h.logger.Error("listing products", zap.Error(err))
		respondWithErr(w, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *productHandler) Create(w http.ResponseWriter, r *http.Request) {
	values, err := decodeValues(r)
	if err != nil {
		respondWithErr(w, err)
		return
	}

	uri, err := h.provider.Insert(types.CollectionURI, values)
	if err != nil {
		respondWithErr(w, err)
		return
	}

	id, err := resource.ParseID(strings.TrimPrefix(uri, types.CollectionURI+"/"))
	if err != nil {
		respondWithErr(w, err)
		return
	}
	p, err := h.provider.Get(id)
	if err != nil {
		respondWithErr(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/%s/%d", types.PathProducts, id))
	respondWithJSON(w, http.StatusCreated, newProductResponse(p))
}

func (h *productHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.provider.Query(itemURI(r), types.Query{})
	if err != nil {
		respondWithErr(w, err)
		return
	}
	products, err := res.Products()
	if err != nil {
		respondWithErr(w, err)
		return
	}
	if len(products) == 0 {
		respondWithErr(w, types.ErrNotFound)
		return
	}
	respondWithJSON(w, http.StatusOK, newProductResponse(products[0]))
}

func (h *productHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		respondWithErr(w, err)
		return
	}

	if _, err := h.provider.Update(itemURI(r), values, types.Selection{}); err != nil {
		respondWithErr(w, err)
		return
	}

	// Zero rows means either an empty payload or a missing product; the
	// read tells them apart.
	p, err := h.provider.Get(id)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newProductResponse(p))
}

func (h *productHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rows, err := h.provider.Delete(itemURI(r), types.Selection{})
	if err != nil {
		respondWithErr(w, err)
		return
	}
	if rows == 0 {
		respondWithErr(w, types.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *productHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	p, err := h.provider.Get(id)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	if len(p.Image) == 0 {
		respondWithErr(w, fmt.Errorf("%w: no image", types.ErrNotFound))
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(p.Image))
	w.WriteHeader(http.StatusOK)
	w.Write(p.Image)
}

func (h *productHandler) Sell(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		respondWithErr(w, err)
		return
	}
	q, err := h.provider.Sell(id)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			h.logger.Error("sell failed", zap.Int64("id", id), zap.Error(err))
		}
		respondWithErr(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StockResponse{ID: id, Quantity: q})
}
