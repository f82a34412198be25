package catalog

import (
	"errors"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

func isNotFound(err error) bool {
	return errors.Is(err, entities.ErrNotFound)
}
