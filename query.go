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

// QueryInfo describes a named query stored on the gateway
type QueryInfo struct {
	ID  string
	OQL string
}

// ListQueries lists the named queries stored on the gateway
func (c *Client) ListQueries(ctx context.Context, mods ...func(*Req)) ([]QueryInfo, error) {
	res, err := c.execute(ctx, request{
		Operation: OpListQueries,
		Method:    http.MethodGet,
		URL:       c.url("queries"),
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return nil, err
	}

	var queries []QueryInfo
	res.GetValue("queries").ForEach(func(_, q gjson.Result) bool {
		queries = append(queries, QueryInfo{
			ID:  q.Get("id").String(),
			OQL: q.Get("oql").String(),
		})
		return true
	})
	return queries, nil
}

// NewQuery stores an OQL query under id so it can be run with RunQuery
//
// Example:
//
//	err := client.NewQuery(ctx, "selectOrders", "SELECT * FROM /orders WHERE id = $1")
func (c *Client) NewQuery(ctx context.Context, id, oql string, mods ...func(*Req)) error {
	if err := validateQuery(id, oql); err != nil {
		return fmt.Errorf("%s: %w", OpNewQuery, err)
	}

	_, err := c.execute(ctx, request{
		Operation: OpNewQuery,
		Method:    http.MethodPost,
		URL:       c.url("queries") + "?id=" + url.QueryEscape(id) + "&q=" + url.QueryEscape(oql),
		Expect:    http.StatusCreated,
	}, mods)
	return err
}

// RunQuery runs the named query with positional bind arguments
func (c *Client) RunQuery(ctx context.Context, id string, args []any, mods ...func(*Req)) (Res, error) {
	if strings.TrimSpace(id) == "" {
		return Res{Operation: OpRunQuery}, fmt.Errorf("%s: query id cannot be empty", OpRunQuery)
	}

	var body string
	if len(args) > 0 {
		encoded, err := encodeValue(args)
		if err != nil {
			return Res{Operation: OpRunQuery}, fmt.Errorf("%s: %w", OpRunQuery, err)
		}
		body = encoded
	}

	res, err := c.execute(ctx, request{
		Operation: OpRunQuery,
		Method:    http.MethodPost,
		URL:       c.url("queries", url.PathEscape(id)),
		Body:      body,
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return res, err
	}
	return c.transform(ctx, c.transformer, "", res)
}

// AdhocQuery runs an OQL query without storing it
//
// Example:
//
//	res, err := client.AdhocQuery(ctx, "SELECT * FROM /orders")
func (c *Client) AdhocQuery(ctx context.Context, oql string, mods ...func(*Req)) (Res, error) {
	if strings.TrimSpace(oql) == "" {
		return Res{Operation: OpAdhocQuery}, fmt.Errorf("%s: query cannot be empty", OpAdhocQuery)
	}

	res, err := c.execute(ctx, request{
		Operation: OpAdhocQuery,
		Method:    http.MethodGet,
		URL:       c.url("queries", "adhoc") + "?q=" + url.QueryEscape(oql),
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return res, err
	}
	return c.transform(ctx, c.transformer, "", res)
}

// DeleteQuery removes a named query
func (c *Client) DeleteQuery(ctx context.Context, id string, mods ...func(*Req)) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: query id cannot be empty", OpDeleteQuery)
	}

	_, err := c.execute(ctx, request{
		Operation: OpDeleteQuery,
		Method:    http.MethodDelete,
		URL:       c.url("queries", url.PathEscape(id)),
		Expect:    http.StatusOK,
	}, mods)
	return err
}

func validateQuery(id, oql string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("query id cannot be empty")
	}
	if strings.TrimSpace(oql) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	return nil
}
