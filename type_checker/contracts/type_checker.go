package contracts

import (
	"context"

	"github.com/morler/frontpack/type_checker/models"
)

type ITypeChecker interface {
	TypeCheck(ctx context.Context) (*models.Result, error)
}
