package transaction

import (
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
)

var (
	ErrNotFound        = fmt.Errorf("transaction %w", apperror.ErrNotFound)
	ErrAccountNotFound = fmt.Errorf("account %w", apperror.ErrNotFound)
)
