package refdata

import (
	"context"
	"encoding/json"
	"fmt"
)

// ByteFetcher is the single fetch method the loaders need. Implemented by
// *fetch.Client.
type ByteFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// APIItemLoader resolves item names from the live API's type endpoint.
func APIItemLoader(f ByteFetcher, baseURL string) LoaderFunc {
	return namedEntityLoader(f, baseURL+"/universe/types/%d/")
}

// APIRegionLoader resolves region names from the live API's region endpoint.
func APIRegionLoader(f ByteFetcher, baseURL string) LoaderFunc {
	return namedEntityLoader(f, baseURL+"/universe/regions/%d/")
}

func namedEntityLoader(f ByteFetcher, urlFormat string) LoaderFunc {
	return func(ctx context.Context, id int64) (string, error) {
		body, err := f.FetchBytes(ctx, fmt.Sprintf(urlFormat, id))
		if err != nil {
			return "", err
		}

		var payload struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", fmt.Errorf("decode name payload: %w", err)
		}
		if payload.Name == "" {
			return "", fmt.Errorf("empty name for id %d", id)
		}
		return payload.Name, nil
	}
}
