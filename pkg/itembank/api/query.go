package api

import (
	"net/http"

	"github.com/tendant/itembank/pkg/itembank"
)

// Query parameters with fixed meaning; everything else is a filter.
const (
	paramPage     = "page"
	paramPageSize = "pageSize"
	paramInclude  = "include"
)

// listQuery reads paging, filters and, for item listings, the include list.
func listQuery(r *http.Request, owner itembank.OwnerType) itembank.ListQuery {
	values := r.URL.Query()
	filters := itembank.Filters{}
	for key, vs := range values {
		switch key {
		case paramPage, paramPageSize, paramInclude:
			continue
		}
		if len(vs) > 0 {
			filters[key] = vs[0]
		}
	}

	var include itembank.RelationSet
	if owner != "" {
		include = itembank.ParseInclude(values.Get(paramInclude), owner)
	}
	return itembank.NewListQuery(values.Get(paramPage), values.Get(paramPageSize), filters, include)
}
