package service

// ListOptions controls GetAllLists. The zero value does not fetch members;
// use DefaultListOptions for the usual behaviour.
type ListOptions struct {
	// Limit bounds how many lists are considered after ListIDs filtering,
	// including lists later dropped for having no aliases. Zero or a
	// negative value means no limit; callers taking user input reject
	// negatives first.
	Limit int

	FetchMembers bool

	// ListIDs, when non-empty, skips every list whose id is not in it
	// before any member fetch.
	ListIDs []int
}

func DefaultListOptions() ListOptions {
	return ListOptions{FetchMembers: true}
}

func (o ListOptions) allows(id int) bool {
	if len(o.ListIDs) == 0 {
		return true
	}
	for _, allowed := range o.ListIDs {
		if allowed == id {
			return true
		}
	}
	return false
}
