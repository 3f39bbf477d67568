package client

import "github.com/samber/lo"

// reduce is the pure, total transition function of the feed state.
// Unknown kinds and updates of absent ids leave the state unchanged;
// it never panics, whatever the event carries.
func reduce(s State, principal string, e FeedEvent) State {
	switch e.Kind {
	case KindNewItem:
		s.Feed = prepend(e.Item, s.Feed)
		if e.Item.Owner == principal {
			s.Mine = prepend(e.Item, s.Mine)
		}

	case KindDeleteItem:
		id := e.ID
		s.Feed = lo.Reject(s.Feed, func(it Item, _ int) bool { return it.ID == id })
		s.Mine = lo.Reject(s.Mine, func(it Item, _ int) bool { return it.ID == id })

	case KindUpdateItem:
		s.Feed = replace(s.Feed, e.Item)
		s.Mine = replace(s.Mine, e.Item)
	}
	return s
}

func prepend(item Item, items []Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func replace(items []Item, item Item) []Item {
	return lo.Map(items, func(it Item, _ int) Item {
		if it.ID == item.ID {
			return item
		}
		return it
	})
}
