// ABOUTME: Prompt schema discovery with a TTL cache and single-flight fetches
// ABOUTME: Prompt lookups suggest close slugs via fuzzy matching when nothing matches

package betterprompt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/singleflight"

	bplog "github.com/mauromedda/betterprompt-go/internal/log"
)

const (
	schemaPath     = "/api/prompts/schema"
	maxSuggestions = 3
)

// schemaCache remembers the last schema list for a TTL.
type schemaCache struct {
	mu      sync.Mutex
	prompts []PromptSchema
	fetched time.Time
	group   singleflight.Group
}

func (sc *schemaCache) get(ttl time.Duration) ([]PromptSchema, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if ttl <= 0 || sc.prompts == nil || time.Since(sc.fetched) > ttl {
		return nil, false
	}
	return slices.Clone(sc.prompts), true
}

func (sc *schemaCache) put(prompts []PromptSchema) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.prompts = slices.Clone(prompts)
	sc.fetched = time.Now()
}

func (sc *schemaCache) reset() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.prompts = nil
}

type schemaList struct {
	Prompts []PromptSchema `json:"prompts"`
}

// Schemas returns every prompt the platform publishes. Results are cached
// for the schema TTL and concurrent callers share one request.
func (c *Client) Schemas(ctx context.Context) ([]PromptSchema, error) {
	if cached, ok := c.schemas.get(c.schemaTTL); ok {
		return cached, nil
	}

	v, err, shared := c.schemas.group.Do("schemas", func() (any, error) {
		prompts, err := c.fetchSchemas(ctx)
		if err != nil {
			return nil, err
		}
		c.schemas.put(prompts)
		return prompts, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		bplog.Debug("betterprompt: schema fetch shared between callers")
	}
	return slices.Clone(v.([]PromptSchema)), nil
}

// InvalidateSchemas drops the cached schema list.
func (c *Client) InvalidateSchemas() {
	c.schemas.reset()
}

// Prompt returns the schema for slug, or a *NotFoundError with suggestions.
func (c *Client) Prompt(ctx context.Context, slug string) (PromptSchema, error) {
	prompts, err := c.Schemas(ctx)
	if err != nil {
		return PromptSchema{}, err
	}
	return FindPrompt(prompts, slug)
}

// FindPrompt looks slug up in prompts.
func FindPrompt(prompts []PromptSchema, slug string) (PromptSchema, error) {
	for _, p := range prompts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return PromptSchema{}, &NotFoundError{Slug: slug, Suggestions: Suggest(prompts, slug)}
}

// Suggest returns up to three slugs that fuzzily match pattern, best first.
func Suggest(prompts []PromptSchema, pattern string) []string {
	if pattern == "" {
		return nil
	}
	slugs := make([]string, len(prompts))
	for i, p := range prompts {
		slugs[i] = p.Slug
	}

	matches := fuzzy.Find(pattern, slugs)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func (c *Client) fetchSchemas(ctx context.Context) ([]PromptSchema, error) {
	req := c.request(http.MethodGet, schemaPath, nil, nil)
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, connectionError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInvokeBody))
	if err != nil {
		return nil, connectionError(err)
	}
	bplog.Debug("betterprompt: GET %s -> %d", c.http.URL(req), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp.StatusCode, data)
	}

	var list schemaList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding prompt schemas: %w", err)
	}
	for i := range list.Prompts {
		normalizeSchema(&list.Prompts[i])
	}
	return list.Prompts, nil
}

// normalizeSchema fills gaps left by older platform versions.
func normalizeSchema(p *PromptSchema) {
	if p.Name == "" {
		p.Name = p.Slug
	}
	if p.RequiredContextVariables == nil {
		p.RequiredContextVariables = []Variable{}
	}
	if p.OptionalContextVariables == nil {
		p.OptionalContextVariables = []Variable{}
	}
}
