package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// MailingList is a custom list with its routable aliases. Recipients and
// Members are both nil when members were not fetched, otherwise both non-nil.
// Title and Description are nil when the index entry omits them.
type MailingList struct {
	ID          int                        `json:"id"`
	Title       *string                    `json:"title"`
	Description *string                    `json:"description"`
	Aliases     []string                   `json:"aliases"`
	Recipients  []string                   `json:"recipients"`
	Members     map[int]*MailingListMember `json:"members"`
}

func (l *MailingList) HasMembers() bool {
	return l.Members != nil
}

// MailingLists maps list id to list and remembers insertion order.
type MailingLists struct {
	ids   []int
	lists map[int]*MailingList
}

func NewMailingLists() *MailingLists {
	return &MailingLists{lists: make(map[int]*MailingList)}
}

// Put inserts or replaces a list. Replacing keeps the original position.
func (m *MailingLists) Put(id int, l *MailingList) {
	if _, ok := m.lists[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.lists[id] = l
}

func (m *MailingLists) Get(id int) (*MailingList, bool) {
	l, ok := m.lists[id]
	return l, ok
}

func (m *MailingLists) IDs() []int {
	out := make([]int, len(m.ids))
	copy(out, m.ids)
	return out
}

func (m *MailingLists) Len() int {
	return len(m.ids)
}

func (m *MailingLists) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')
		data, err := json.Marshal(m.lists[id])
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
