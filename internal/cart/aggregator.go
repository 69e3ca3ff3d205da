package cart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// ErrMissingVariationCode means the platform sent a cart line without its
// server-assigned variation combination code. There is no reliable
// client-side substitute for it, so aggregation refuses the whole fetch.
var ErrMissingVariationCode = errors.New("cart line has no variation combination code")

// Aggregate folds raw cart lines into display groups keyed by
// (product type, variation combination). Pure and deterministic: group order
// follows first appearance in the input, member line ids keep input order and
// partition the input exactly, variation details are sorted by name for
// stable display. Quantity is taken from the first line of each group; the
// platform keeps sibling lines of one combination at equal quantity.
func Aggregate(lines []domain.CartLine) ([]domain.CartGroup, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	groups := make([]domain.CartGroup, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, line := range lines {
		if line.VariationCode == "" {
			return nil, fmt.Errorf("%w: line %d", ErrMissingVariationCode, line.LineID)
		}

		key := groupKey(line.ProductTypeID, line.VariationCode)
		i, seen := index[key]
		if !seen {
			index[key] = len(groups)
			groups = append(groups, domain.CartGroup{
				GroupKey:       key,
				ProductTypeID:  line.ProductTypeID,
				VariationCode:  line.VariationCode,
				DisplayName:    line.DisplayName,
				ImageURL:       line.ImageURL,
				UnitSalePrice:  line.UnitSalePrice,
				UnitOrigPrice:  line.UnitOrigPrice,
				Quantity:       line.Quantity,
				VATPercent:     line.VATPercent,
				IsDiscontinued: line.IsDiscontinued,
				MemberLineIDs:  []int64{line.LineID},
				Variations: []domain.VariationDetail{
					{Name: line.VariationName, Value: line.VariationValue},
				},
			})
			continue
		}

		g := &groups[i]
		g.MemberLineIDs = append(g.MemberLineIDs, line.LineID)
		g.Variations = append(g.Variations, domain.VariationDetail{
			Name:  line.VariationName,
			Value: line.VariationValue,
		})
		// A discontinued line poisons the whole group.
		g.IsDiscontinued = g.IsDiscontinued || line.IsDiscontinued
	}

	for i := range groups {
		sort.Slice(groups[i].Variations, func(a, b int) bool {
			return groups[i].Variations[a].Name < groups[i].Variations[b].Name
		})
	}

	return groups, nil
}

func groupKey(productTypeID int64, variationCode string) string {
	return fmt.Sprintf("%d:%s", productTypeID, variationCode)
}
