// Package collection owns the watchlist and the rating map.
//
// The watchlist is a set of [models.MovieID] persisted as a JSON array under
// [models.KeyWatchlist]; duplicates in stored data are collapsed on read. Ratings are a
// [models.MovieID] to [models.Rating] map under [models.KeyRatings], overwritten on re-rate.
//
// Every mutation requires an active session. Without one the call fails with
// [shared.ErrNotAuthenticated], writes nothing, emits a warning and asks the host to navigate to
// [models.LocationLogin]. Mutations are read-modify-write operations through [storage.Update], so a
// read issued after a successful call observes it.
//
// Ratings are not scoped to the session that wrote them; a later session sees earlier ratings.
package collection
