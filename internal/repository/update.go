package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/templui/jobtracker/internal/patch"
)

// setClause renders "col = $1, ..., updated_at = $n" for a patch. Columns must be
// in allowed; values are always bound, never interpolated.
func setClause(table string, allowed map[string]bool, changes []patch.Change, updatedAt time.Time) (string, []any, error) {
	if len(changes) == 0 {
		return "", nil, patch.ErrEmpty
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+3)
	for _, c := range changes {
		if !allowed[c.Column] {
			return "", nil, fmt.Errorf("column %q is not updatable on %s", c.Column, table)
		}
		args = append(args, c.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Column, len(args)))
	}

	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	return strings.Join(sets, ", "), args, nil
}
