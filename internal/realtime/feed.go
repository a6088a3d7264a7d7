package realtime

import (
	"sort"

	"peerrent-backend/internal/domain"
)

// DefaultFeedWindow is how many notifications a reconciled feed retains.
const DefaultFeedWindow = 20

// Feed reconciles notifications that arrive over two channels, the live
// push stream and the periodic poll. Items are merged by id so a poll
// can never overwrite or duplicate what was already delivered live, and
// the result is kept newest first inside a fixed window.
type Feed struct {
	window int
	byID   map[int32]domain.Notification
}

func NewFeed(window int) *Feed {
	if window <= 0 {
		window = DefaultFeedWindow
	}
	return &Feed{
		window: window,
		byID:   make(map[int32]domain.Notification),
	}
}

// Merge folds a batch of notifications into the feed. Already known ids
// keep their first-seen copy except for the read flag, which can only
// move from unread to read.
func (f *Feed) Merge(batch []domain.Notification) {
	for _, n := range batch {
		if existing, ok := f.byID[n.ID]; ok {
			if n.IsRead && !existing.IsRead {
				existing.IsRead = true
				f.byID[n.ID] = existing
			}
			continue
		}
		f.byID[n.ID] = n
	}
	f.trim()
}

func (f *Feed) trim() {
	if len(f.byID) <= f.window {
		return
	}
	items := f.sorted()
	for _, n := range items[f.window:] {
		delete(f.byID, n.ID)
	}
}

// Items returns the feed contents, newest first.
func (f *Feed) Items() []domain.Notification {
	return f.sorted()
}

func (f *Feed) Len() int {
	return len(f.byID)
}

func (f *Feed) sorted() []domain.Notification {
	items := make([]domain.Notification, 0, len(f.byID))
	for _, n := range f.byID {
		items = append(items, n)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedOn.Equal(items[j].CreatedOn) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedOn.After(items[j].CreatedOn)
	})
	return items
}
