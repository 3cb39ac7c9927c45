package memory

import (
	"sort"

	"finance/internal/core"
)

func sortNotifications(items []core.Notification) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date.Time) {
			return items[i].Date.After(items[j].Date.Time)
		}
		return items[i].ID > items[j].ID
	})
}
