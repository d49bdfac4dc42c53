package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/aiclinimatch/pkg/config"
	"github.com/zatekoja/aiclinimatch/pkg/retry"
)

const (
	SpecialistsCollection = "specialists"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client and waits for the health endpoint
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.Connect(ctx, retry.DefaultConfig(), "typesense", func(ctx context.Context) error {
		healthy, err := client.Health(ctx, 2*time.Second)
		if err != nil {
			return err
		}
		if !healthy {
			return fmt.Errorf("typesense reports unhealthy")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the specialists collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == SpecialistsCollection {
			log.Debug().Str("collection", SpecialistsCollection).Msg("typesense collection already exists")
			return nil
		}
	}

	_, err = c.client.Collections().Create(ctx, SpecialistSchema())
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", SpecialistsCollection).Msg("created typesense collection")
	return nil
}

// SpecialistSchema is the collection layout used for specialist documents.
func SpecialistSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: SpecialistsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "specialty", Type: "string", Facet: pointer.True()},
			{Name: "sub_specialty", Type: "string", Optional: pointer.True()},
			{Name: "institution", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "location_text", Type: "string"},
			{Name: "location", Type: "geopoint", Optional: pointer.True()},
			{Name: "insurance", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "tags", Type: "string[]", Optional: pointer.True()},
			{Name: "keywords", Type: "string"},
			{Name: "telehealth", Type: "bool", Facet: pointer.True()},
			{Name: "accepting", Type: "bool", Facet: pointer.True()},
			{Name: "match_score", Type: "int32"},
		},
		DefaultSortingField: pointer.String("match_score"),
	}
}
