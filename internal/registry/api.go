package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/crateworks/typegen/internal"
	"github.com/crateworks/typegen/internal/tracker"
	"github.com/crateworks/typegen/internal/util"
	"github.com/shopmonkeyus/go-common/logger"
	"golang.org/x/sync/errgroup"
)

const (
	snapshotKeyPrefix    = "snapshot:"
	defaultCacheDuration = time.Hour * 24
)

// APIRegistry fetches the schema snapshot from a server over HTTP and caches
// it in the tracker so repeated runs against the same server skip the network.
type APIRegistry struct {
	logger   logger.Logger
	apiURL   string
	token    string
	snapshot *internal.Snapshot
	tracker  *tracker.Tracker
}

var _ internal.SchemaRegistry = (*APIRegistry)(nil)

// GetSnapshot returns the schema snapshot.
func (r *APIRegistry) GetSnapshot() (*internal.Snapshot, error) {
	return r.snapshot, nil
}

// Save the snapshot to a file.
func (r *APIRegistry) Save(filename string) error {
	return save(filename, r.snapshot)
}

func (r *APIRegistry) Close() error {
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
}

// fetch performs an authenticated GET against the server and decodes the
// response envelope into out.
func (r *APIRegistry) fetch(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", r.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %s", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	retry := util.NewHTTPRetry(req, util.WithLogger(r.logger))
	resp, err := retry.Do()
	if err != nil {
		return fmt.Errorf("error fetching %s: %s", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var errResponse errorResponse
		buf, _ := io.ReadAll(resp.Body)
		json.Unmarshal(buf, &errResponse)
		if errResponse.Message != "" {
			return fmt.Errorf("error fetching %s: %s", path, errResponse.Message)
		}
		return fmt.Errorf("error fetching %s: %d: %s", path, resp.StatusCode, string(buf))
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("error decoding %s response: %s", path, err)
	}
	return nil
}

type collectionsResponse struct {
	Data []internal.CollectionInfo `json:"data"`
}

type fieldsResponse struct {
	Data []internal.FieldInfo `json:"data"`
}

type relationsResponse struct {
	Data []internal.RelationInfo `json:"data"`
}

type serverInfoResponse struct {
	Data struct {
		Version string `json:"version"`
	} `json:"data"`
}

// NewAPIRegistry creates a schema registry backed by the server API. When a
// tracker is provided, a cached snapshot for the same server is used if it
// has not expired; a fresh fetch is cached for the next run.
func NewAPIRegistry(ctx context.Context, log logger.Logger, apiURL string, token string, tr *tracker.Tracker) (internal.SchemaRegistry, error) {
	registry := &APIRegistry{
		logger:  log.WithPrefix("[registry]"),
		apiURL:  strings.TrimSuffix(apiURL, "/"),
		token:   token,
		tracker: tr,
	}
	cacheKey := snapshotKeyPrefix + registry.apiURL

	if tr != nil {
		snapshot, err := tr.GetSnapshot(cacheKey)
		if err != nil {
			registry.logger.Warn("error reading cached snapshot: %s", err)
		}
		if snapshot != nil {
			registry.logger.Debug("using cached schema snapshot for %s", registry.apiURL)
			registry.snapshot = snapshot
			return registry, nil
		}
	}

	var snapshot internal.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var resp collectionsResponse
		if err := registry.fetch(gctx, "/collections", &resp); err != nil {
			return err
		}
		snapshot.Collections = resp.Data
		return nil
	})
	g.Go(func() error {
		var resp fieldsResponse
		if err := registry.fetch(gctx, "/fields", &resp); err != nil {
			return err
		}
		snapshot.Fields = resp.Data
		return nil
	})
	g.Go(func() error {
		var resp relationsResponse
		if err := registry.fetch(gctx, "/relations", &resp); err != nil {
			return err
		}
		snapshot.Relations = resp.Data
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the server version is informational only, don't fail the run over it
	var info serverInfoResponse
	if err := registry.fetch(ctx, "/server/info", &info); err != nil {
		registry.logger.Debug("error fetching server info: %s", err)
	} else {
		snapshot.Version = info.Data.Version
	}

	registry.logger.Trace("fetched %d collections, %d fields, %d relations", len(snapshot.Collections), len(snapshot.Fields), len(snapshot.Relations))
	registry.snapshot = &snapshot

	if tr != nil {
		if err := tr.SetSnapshot(cacheKey, &snapshot, defaultCacheDuration); err != nil {
			registry.logger.Warn("error caching snapshot: %s", err)
		}
	}

	return registry, nil
}
