// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package gemfire provides a simple, fluent API for the GemFire / Apache Geode
// REST gateway (/gemfire-api/v1).
//
// The library maps per-region CRUD operations onto REST calls, encodes values
// as JSON and decides success purely from the HTTP status code. Every failed
// call is logged once and reported as a *GemfireError.
//
// # Quick Start
//
// Create a client and work with a region:
//
//	client, err := gemfire.NewClient(
//	    "http://localhost:8080",
//	    gemfire.Username("admin"),
//	    gemfire.Password("secret"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//	orders, err := client.Region(ctx, "orders")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := orders.Put(ctx, 42, map[string]any{"item": "book", "qty": 2}); err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := orders.Item(ctx, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Item:", res.GetValue("item").String())
//
// # Operations
//
//   - GetAll: GET <region>?ALL
//   - Create: POST <region>?key=K (409 if the key exists)
//   - Put: PUT <region>/K
//   - Keys: GET <region>/keys
//   - Get / Item: GET <region>/K1,K2?ignoreMissingKey=true
//   - PutAll: PUT <region>/K1,K2 with a JSON list of values
//   - Update: PUT <region>/K?op=REPLACE (404 if the key is missing)
//   - CompareAndSet: PUT <region>/K?op=CAS with {"@old": ..., "@new": ...}
//   - Delete: DELETE <region>/K1,K2
//   - Clear: DELETE <region> for REPLICATE, Keys then Delete for PARTITION
//
// The gateway-level calls Ping, ListRegions, the query calls (ListQueries,
// NewQuery, RunQuery, AdhocQuery, DeleteQuery) and the function calls
// (ListFunctions, ExecuteFunction) live on Client.
//
// # JSON Manipulation
//
// Values are encoded with encoding/json. Use the Body builder for ad-hoc
// documents:
//
//	customer := gemfire.Body{}.
//	    Set("id", 13).
//	    Set("name", "abc").
//	    Set("address.city", "Berlin")
//
//	res, err := customers.Put(ctx, 13, customer)
//
// # Error Handling
//
// Each call returns a Res whose OK field mirrors the error:
//
//	if _, err := orders.Create(ctx, 42, order); gemfire.IsConflict(err) {
//	    fmt.Println("order 42 already exists")
//	}
//
// By default each operation issues exactly one request. Transient failures
// (transport errors, 429/502/503/504) can be retried with exponential backoff:
//
//	client, err := gemfire.NewClient(
//	    "http://localhost:8080",
//	    gemfire.MaxRetries(3),
//	    gemfire.BackoffMinDelay(500*time.Millisecond),
//	    gemfire.BackoffMaxDelay(10*time.Second),
//	)
//
// # Thread Safety
//
// Client and Region are safe for concurrent use. A Region is immutable and all
// regions share the client's HTTP connection pool. Clearing a PARTITION region
// is not atomic: entries created between listing and deleting the keys
// survive.
//
// # References
//
//   - GemFire REST API: https://docs.vmware.com/en/VMware-GemFire/index.html
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
package gemfire
