// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package store holds the synchronized collections of users, readers and access
records that every dashboard view is derived from.

# Consistency Model

  - ReloadAll fetches the three collections concurrently (errgroup, fail-fast)
    and swaps them in under one lock. On any failure the previous snapshot is
    kept intact.
  - Writes use MutateThenSync: the backend call runs first and a full reload
    follows. There is no optimistic local update.
  - Overlapping reloads coalesce into at most one running and one trailing
    reload, so a caller never receives data fetched before its request.
  - A 401 from any call clears the persisted token, marks the store
    unauthenticated and notifies OnSessionExpired listeners.

# Usage

	st := store.New(api, tokenStore, cfg.Sync.ReloadTimeout)
	st.OnReload(func(s store.Snapshot) { bus.PublishSnapshot(s) })

	user, snap, err := store.Mutate(ctx, st, func(ctx context.Context, api client.AccessAPI) (*models.User, error) {
	    return api.CreateUser(ctx, draft)
	})
*/
package store
