// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ListFunctions lists the IDs of the functions deployed on the cluster
func (c *Client) ListFunctions(ctx context.Context, mods ...func(*Req)) ([]string, error) {
	res, err := c.execute(ctx, request{
		Operation: OpListFunctions,
		Method:    http.MethodGet,
		URL:       c.url("functions"),
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return nil, err
	}

	arr := res.GetValue("functions").Array()
	ids := make([]string, 0, len(arr))
	for _, f := range arr {
		ids = append(ids, f.String())
	}
	return ids, nil
}

// ExecuteFunction runs a deployed function on the members hosting region
//
// An empty region executes the function without a region filter. args is
// encoded as JSON and may be nil.
//
// Example:
//
//	res, err := client.ExecuteFunction(ctx, "customers", "MostValuedCustomer",
//	    map[string]any{"args": []int{2}})
func (c *Client) ExecuteFunction(ctx context.Context, region, functionID string, args any, mods ...func(*Req)) (Res, error) {
	if strings.TrimSpace(functionID) == "" {
		return Res{Operation: OpExecuteFunction, Region: region},
			fmt.Errorf("%s: function id cannot be empty", OpExecuteFunction)
	}

	var body string
	if args != nil {
		encoded, err := encodeValue(args)
		if err != nil {
			return Res{Operation: OpExecuteFunction, Region: region},
				fmt.Errorf("%s: %w", OpExecuteFunction, err)
		}
		body = encoded
	}

	target := c.url("functions", url.PathEscape(functionID))
	if region != "" {
		target += "?onRegion=" + url.QueryEscape(region)
	}

	res, err := c.execute(ctx, request{
		Operation: OpExecuteFunction,
		Region:    region,
		Method:    http.MethodPost,
		URL:       target,
		Body:      body,
		Expect:    http.StatusOK,
	}, mods)
	if err != nil {
		return res, err
	}
	return c.transform(ctx, c.transformer, region, res)
}
