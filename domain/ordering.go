package domain

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// DeriveOrderedView returns the listing order: pinned chats first, then the
// others, each group by descending LastMessageAt. Ties keep input order.
// The input slice is left untouched.
func DeriveOrderedView(chats []Chat) []Chat {
	pinned, unpinned := lo.FilterReject(chats, func(c Chat, _ int) bool {
		return c.IsPinned
	})
	byRecency := func(a, b Chat) int {
		return b.LastMessageAt.Compare(a.LastMessageAt)
	}
	slices.SortStableFunc(pinned, byRecency)
	slices.SortStableFunc(unpinned, byRecency)
	return append(pinned, unpinned...)
}

// FilterChats keeps the chats whose display name contains query,
// case-insensitively. An empty query keeps every chat.
func FilterChats(chats []Chat, query, localID string) []Chat {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return chats
	}
	return lo.Filter(chats, func(c Chat, _ int) bool {
		return strings.Contains(strings.ToLower(c.DisplayName(localID)), query)
	})
}
