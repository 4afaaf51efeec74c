package home

// Action is an intent dispatched to a Machine
type Action interface {
	action()
}

// RequestInitialLoad loads the first page, replacing the list
type RequestInitialLoad struct{}

// RequestNextPage appends the next page when the last loaded recipe is
// among VisibleIDs
type RequestNextPage struct {
	VisibleIDs []int
}

// DismissError hides the current error without retrying
type DismissError struct{}

// Retry hides the current error and re-issues the request that failed
type Retry struct{}

// SetQuery stores the search text. An empty query also dismisses search.
type SetQuery struct {
	Query string
}

// SubmitSearch searches with the current query
type SubmitSearch struct{}

// DismissSearch drops the search results
type DismissSearch struct{}

func (RequestInitialLoad) action() {}
func (RequestNextPage) action()    {}
func (DismissError) action()       {}
func (Retry) action()              {}
func (SetQuery) action()           {}
func (SubmitSearch) action()       {}
func (DismissSearch) action()      {}
