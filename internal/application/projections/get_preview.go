package projections

import (
	"context"

	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/application/listutil"
	"radioclub/internal/domain/registration"
)

// GetPreviewQuery carries the table parameters for the preview page.
type GetPreviewQuery struct {
	listutil.ListParams
}

// GetPreviewDeps holds dependencies for the preview projection.
type GetPreviewDeps struct {
	RegistrationStore RegistrationReader
}

// PreviewResult is every matching registration plus the unfiltered total.
type PreviewResult struct {
	Rows   []registration.Registration
	Total  int // rows before the search filter
	Params listutil.ListParams
}

// QueryGetPreview lists registrations in the requested order, filtered by search.
// PRE: query.Sort is empty or one of registrationStore.SortColumns
// POST: Rows is never nil; no pagination is applied
func QueryGetPreview(ctx context.Context, query GetPreviewQuery, deps GetPreviewDeps) (PreviewResult, error) {
	regs, err := deps.RegistrationStore.List(ctx, registrationStore.ListOrder{Sort: query.Sort, Dir: query.Dir})
	if err != nil {
		return PreviewResult{}, err
	}

	result := PreviewResult{Rows: []registration.Registration{}, Total: len(regs), Params: query.ListParams}
	for _, r := range regs {
		if listutil.Matches(query.Search, r.Name, r.StudentID, r.MajorClass) {
			result.Rows = append(result.Rows, r)
		}
	}
	return result, nil
}
