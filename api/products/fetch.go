package products

import (
	"botica_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// FetchActiveProducts handles GET /products, the storefront catalog read.
func (prm *ProductRoutesManager) FetchActiveProducts(w http.ResponseWriter, r *http.Request) {
	products, err := prm.productService.GetProducts(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"count":    len(products),
		}),
		gecho.Send(),
	)
}
