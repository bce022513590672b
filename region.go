// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// RegionType is the topology of a region. It decides how Clear is performed.
type RegionType string

const (
	// Replicate regions hold a full copy on every member; Clear is one DELETE
	Replicate RegionType = "REPLICATE"

	// Partition regions are spread across members; Clear deletes every key
	Partition RegionType = "PARTITION"
)

// Operation names used in Res, GemfireError and metrics
const (
	OpGetAll          = "get_all"
	OpCreate          = "create"
	OpPut             = "put"
	OpKeys            = "keys"
	OpGet             = "get"
	OpPutAll          = "put_all"
	OpUpdate          = "update"
	OpCompareAndSet   = "compare_and_set"
	OpDelete          = "delete"
	OpClear           = "clear"
	OpPing            = "ping"
	OpListRegions     = "list_regions"
	OpListQueries     = "list_queries"
	OpNewQuery        = "new_query"
	OpRunQuery        = "run_query"
	OpAdhocQuery      = "adhoc_query"
	OpDeleteQuery     = "delete_query"
	OpListFunctions   = "list_functions"
	OpExecuteFunction = "execute_function"
)

// ParseRegionType maps a gateway region type onto Replicate or Partition.
//
// Server types carry suffixes (REPLICATE_PERSISTENT, PARTITION_REDUNDANT,
// ...); only the prefix decides the topology.
func ParseRegionType(s string) (RegionType, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(t, string(Replicate)):
		return Replicate, nil
	case strings.HasPrefix(t, string(Partition)):
		return Partition, nil
	default:
		return "", fmt.Errorf("invalid region type: %q (must be REPLICATE or PARTITION)", s)
	}
}

// Region is a handle for the CRUD endpoints of one region
//
// A Region is immutable after construction and holds no cached data; each
// method performs one REST round trip through the owning Client.
type Region struct {
	// Name is the region name on the gateway
	Name string

	// URL is the region's base URL
	URL string

	// Type governs Clear semantics
	Type RegionType

	client      *Client
	transformer ResponseTransformer
}

// RegionInfo describes a region as listed by the gateway
type RegionInfo struct {
	Name            string
	Type            string
	KeyConstraint   string
	ValueConstraint string
}

// NewRegion creates a Region handle without contacting the gateway
//
// Example:
//
//	orders, err := client.NewRegion("orders", gemfire.Replicate)
func (c *Client) NewRegion(name string, regionType RegionType, opts ...func(*Region)) (*Region, error) {
	if err := validateRegionName(name); err != nil {
		return nil, err
	}
	if regionType != Replicate && regionType != Partition {
		return nil, fmt.Errorf("invalid region type: %q (must be REPLICATE or PARTITION)", regionType)
	}
	return c.newRegion(name, regionType, opts...), nil
}

func validateRegionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("region name cannot be empty")
	}
	if strings.ContainsAny(name, "/?#") {
		return fmt.Errorf("region name contains invalid characters: %s", name)
	}
	return nil
}

// newRegion builds a handle for a validated name. regionType may be a
// topology that Clear does not support.
func (c *Client) newRegion(name string, regionType RegionType, opts ...func(*Region)) *Region {
	r := &Region{
		Name:        name,
		URL:         c.url(url.PathEscape(name)),
		Type:        regionType,
		client:      c,
		transformer: c.transformer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Region returns a handle for an existing region, looking up its type on the
// gateway the first time. Handles are cached until Close; opts only apply
// when the handle is first created.
//
// Regions of other topologies (NORMAL, LOCAL, PRELOADED, ...) get a handle
// whose Type is the gateway's type name; every operation but Clear works on it.
func (c *Client) Region(ctx context.Context, name string, opts ...func(*Region)) (*Region, error) {
	if r, ok := c.regions.Load(name); ok {
		return r, nil
	}

	infos, err := c.ListRegions(ctx)
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		if info.Name != name {
			continue
		}
		regionType, err := ParseRegionType(info.Type)
		if err != nil {
			regionType = RegionType(strings.ToUpper(strings.TrimSpace(info.Type)))
			c.logger.Debug(ctx, "region topology does not support clear",
				"region", name,
				"type", info.Type)
		}
		if err := validateRegionName(name); err != nil {
			return nil, err
		}
		actual, _ := c.regions.LoadOrStore(name, c.newRegion(name, regionType, opts...))
		return actual, nil
	}

	return nil, fmt.Errorf("region %q not found", name)
}

// ListRegions lists all regions known to the gateway
func (c *Client) ListRegions(ctx context.Context, mods ...func(*Req)) ([]RegionInfo, error) {
	res, err := c.execute(ctx, request{
		Operation: OpListRegions,
		Method:    http.MethodGet,
		URL:       c.BaseURL,
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return nil, err
	}

	regions := res.GetValue("regions")
	if !regions.IsArray() {
		return nil, fmt.Errorf("%s: response has no regions list", OpListRegions)
	}

	var infos []RegionInfo
	regions.ForEach(func(_, r gjson.Result) bool {
		infos = append(infos, RegionInfo{
			Name:            r.Get("name").String(),
			Type:            r.Get("type").String(),
			KeyConstraint:   r.Get("key-constraint").String(),
			ValueConstraint: r.Get("value-constraint").String(),
		})
		return true
	})
	return infos, nil
}

// Ping verifies that the gateway is reachable and answering
func (c *Client) Ping(ctx context.Context, mods ...func(*Req)) error {
	_, err := c.execute(ctx, request{
		Operation: OpPing,
		Method:    http.MethodGet,
		URL:       c.url("ping"),
		Expect:    http.StatusOK,
	}, mods)
	return err
}
