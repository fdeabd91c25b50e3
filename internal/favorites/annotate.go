package favorites

// Record is a favoritable value type.
type Record[T any] interface {
	FavoriteKey() string
	WithFavorite(bool) T
}

// Annotate returns a copy of items with each favorite flag set by
// membership in set. It is idempotent.
func Annotate[T Record[T]](items []T, set Set) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.WithFavorite(set.Contains(item.FavoriteKey()))
	}
	return out
}

// Marked returns the keys of the favorite items in list order.
func Marked[T Record[T]](items []T, isFavorite func(T) bool) Set {
	var ids []string
	for _, item := range items {
		if isFavorite(item) {
			ids = append(ids, item.FavoriteKey())
		}
	}
	return NewSet(ids...)
}
