package usecase

import (
	"errors"

	"github.com/finport-lab/riskcast/pkg/repository/firestore"
	"github.com/finport-lab/riskcast/pkg/repository/memory"
)

// IsNotFound reports whether err is a repository not-found error,
// regardless of the storage backend.
func IsNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

// errRunCancelled signals that a scenario run should stop because its
// record has been deleted. It never leaves this package.
var errRunCancelled = errors.New("scenario run cancelled")
