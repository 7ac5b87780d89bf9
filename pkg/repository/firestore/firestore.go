package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// Firestore is a durable implementation of interfaces.Repository
// backed by Google Cloud Firestore.
type Firestore struct {
	client   *firestore.Client
	scenario *scenarioRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests
// sharing one Firestore project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.scenario.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:   client,
		scenario: newScenarioRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Scenario() interfaces.ScenarioRepository {
	return f.scenario
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
