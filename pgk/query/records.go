package query

import (
	"sort"

	"github.com/saveblush/reraw-search/models"
)

// recordSet records by id, a later copy of an id replaces the earlier one
type recordSet struct {
	order []string
	byID  map[string]*models.Event
}

func newRecordSet() *recordSet {
	return &recordSet{
		byID: make(map[string]*models.Event),
	}
}

func (r *recordSet) put(evt *models.Event) {
	if evt == nil {
		return
	}

	if _, ok := r.byID[evt.ID]; !ok {
		r.order = append(r.order, evt.ID)
	}
	r.byID[evt.ID] = evt
}

func (r *recordSet) len() int {
	return len(r.byID)
}

// finalize newest first, ties keep arrival order, at most limit records
func (r *recordSet) finalize(limit int) []*models.Event {
	result := make([]*models.Event, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.byID[id])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt > result[j].CreatedAt
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result
}
