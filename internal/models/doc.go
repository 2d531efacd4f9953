// Package models defines the domain types shared by the moviebot packages.
//
// The package contains two categories of types:
//
// 1. Persisted state: records written to the key-value store
//   - [Session] : the locally persisted "currently logged in user"
//   - [Rating] : a 1-5 score keyed by [MovieID]
//   - [MovieID] : canonical string movie identifier, decoded from strings or numbers
//
// 2. Metadata read contract: values decoded from the metadata proxy
//   - [MovieSummary] : one entry of a trending or search listing
//   - [MovieDetail] : the richer detail record with credits, keywords and images
//
// Outcome types ([NoticeKind], [Location]) describe what the core reports to its host.
//
// JSON field names follow the keys the browser front end wrote, so existing stored data decodes unchanged.
package models
