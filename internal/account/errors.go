package account

import (
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
)

var (
	ErrNotFound    = fmt.Errorf("account %w", apperror.ErrNotFound)
	ErrLastAccount = fmt.Errorf("cannot delete the only account: %w", apperror.ErrConstraint)
)
