// Package pagination provides concurrent multi-page fetching for paginated
// Lodestone resources (achievements kinds aside, friend lists and free
// company member lists are served one page at a time by the upstream).
//
// The fetcher:
//   - Fetches page 1 synchronously to learn the total page count
//   - Short-circuits on a private section before touching further pages
//   - Fans out pages 2..N through a bounded worker pool (default 8)
//   - Drops failed pages from the merge instead of aborting the section
//   - Merges items strictly by ascending page number, never arrival order
//
// Example usage:
//
//	result, err := pagination.FetchAll(ctx, pagination.DefaultConfig(),
//		func(ctx context.Context, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
//			return client.Friends(ctx, characterID, page)
//		})
package pagination
