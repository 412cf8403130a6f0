package workflow

import (
	"reflect"
	"strings"

	"gorm.io/gorm"

	"github.com/portal-space/core/internal/pkg/apperrors"
)

type identifiable interface {
	GetID() string
}

// ValidateIDs fetches the rows for one referenced-id set inside the caller's
// transaction and fails if any id does not resolve. Duplicates in the input
// are collapsed; dest receives the fetched rows on success.
func ValidateIDs(tx *gorm.DB, label string, dest interface{}, ids []string) error {
	distinct := dedupe(ids)
	if len(distinct) == 0 {
		return nil
	}

	if err := tx.Where("id IN ?", distinct).Find(dest).Error; err != nil {
		return apperrors.Internal(err)
	}

	found := map[string]bool{}
	v := reflect.Indirect(reflect.ValueOf(dest))
	for i := 0; i < v.Len(); i++ {
		row, ok := v.Index(i).Interface().(identifiable)
		if !ok {
			return apperrors.Internal(gorm.ErrInvalidData)
		}
		found[row.GetID()] = true
	}

	var missing []string
	for _, id := range distinct {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperrors.NotFoundf("%s not found: %s", label, strings.Join(missing, ", "))
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
