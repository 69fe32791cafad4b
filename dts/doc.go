// SPDX-License-Identifier: Apache-2.0

// Package dts provides a client for the KBase Data Transfer System (DTS),
// a service that locates files in scientific data repositories (JGI Data
// Portal, KBase, NMDC, ...) and moves them between those repositories.
//
// A [Client] is constructed once against a DTS server and a KBase developer
// token and is safe for concurrent use:
//
//	client, err := dts.New(dts.Config{
//	    Server: "https://lb-dts.staging.kbase.us",
//	    Token:  os.Getenv("DTS_KBASE_DEV_TOKEN"),
//	})
//	if err != nil { ... }
//	results, err := client.Search(ctx, dts.SearchParams{
//	    Database: "jdp",
//	    Orcid:    "0000-0002-1825-0097",
//	    Query:    "prochlorococcus",
//	})
//
// Transport-level failures are mapped to the sentinel errors defined in
// errors.go so callers can branch with [errors.Is] (e.g. [ErrUnauthorized]
// for a rejected token, [ErrNotFound] for an unknown transfer).
package dts
