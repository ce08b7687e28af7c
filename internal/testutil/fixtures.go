package testutil

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// object is a JSON object that keeps its key order when marshalled.
type object []field

type field struct {
	key   string
	value any
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(f.key))
		buf.WriteByte(':')
		data, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o object) set(key string, value any) object {
	for i := range o {
		if o[i].key == key {
			o[i].value = value
			return o
		}
	}
	return append(o, field{key: key, value: value})
}

func (o object) without(key string) object {
	out := o[:0:0]
	for _, f := range o {
		if f.key != key {
			out = append(out, f)
		}
	}
	return out
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// RecordBuilder builds one raw member record as the roster service sends it:
// every field wrapped as {"value": ...}.
type RecordBuilder struct {
	key    string
	fields object
}

// NewMemberBuilder returns a valid roster record.
func NewMemberBuilder(memberNo int) *RecordBuilder {
	no := strconv.Itoa(memberNo)
	b := &RecordBuilder{key: no}
	return b.
		With("member_no", no).
		With("first_name", "Anna").
		With("last_name", "Svensson").
		With("date_of_birth", "2009-04-30").
		With("group", "Testkåren").
		With("sex", "Kvinna")
}

// NewListMemberBuilder returns a valid custom list member record.
func NewListMemberBuilder(memberNo int) *RecordBuilder {
	no := strconv.Itoa(memberNo)
	b := &RecordBuilder{key: no}
	return b.
		With("member_no", no).
		With("first_name", "Anna").
		With("last_name", "Svensson").
		With("email", "anna@example.com").
		With("extra_emails", []string{})
}

// With sets a wrapped field value.
func (b *RecordBuilder) With(name string, value any) *RecordBuilder {
	b.fields = b.fields.set(name, object{{key: "value", value: value}})
	return b
}

// WithUnwrapped sets a field that carries no "value" key.
func (b *RecordBuilder) WithUnwrapped(name string, raw any) *RecordBuilder {
	b.fields = b.fields.set(name, raw)
	return b
}

func (b *RecordBuilder) Without(name string) *RecordBuilder {
	b.fields = b.fields.without(name)
	return b
}

// WithKey overrides the payload key the record is listed under.
func (b *RecordBuilder) WithKey(key string) *RecordBuilder {
	b.key = key
	return b
}

func (b *RecordBuilder) Build() json.RawMessage {
	return mustJSON(b.fields)
}

// DataPayload wraps records as {"data": {key: record, ...}} in order.
func DataPayload(records ...*RecordBuilder) json.RawMessage {
	data := object{}
	for _, r := range records {
		data = append(data, field{key: r.key, value: r.fields})
	}
	return mustJSON(object{{key: "data", value: data}})
}

// ListBuilder builds one entry of the customlists index.
type ListBuilder struct {
	id      int
	fields  object
	members []*RecordBuilder
	noLink  bool
}

func NewListBuilder(id int) *ListBuilder {
	return &ListBuilder{
		id: id,
		fields: object{
			{key: "id", value: strconv.Itoa(id)},
			{key: "title", value: "List " + strconv.Itoa(id)},
			{key: "description", value: "Description " + strconv.Itoa(id)},
			{key: "aliases", value: object{{key: strconv.Itoa(id * 100), value: "list" + strconv.Itoa(id) + "@lists.example.com"}}},
		},
	}
}

func (b *ListBuilder) ID() int { return b.id }

func (b *ListBuilder) WithTitle(title string) *ListBuilder {
	b.fields = b.fields.set("title", title)
	return b
}

func (b *ListBuilder) WithDescription(description string) *ListBuilder {
	b.fields = b.fields.set("description", description)
	return b
}

// WithAliases replaces the alias map; pairs are alias key, alias value.
func (b *ListBuilder) WithAliases(pairs ...string) *ListBuilder {
	aliases := object{}
	for i := 0; i+1 < len(pairs); i += 2 {
		aliases = append(aliases, field{key: pairs[i], value: pairs[i+1]})
	}
	b.fields = b.fields.set("aliases", aliases)
	return b
}

// WithoutAliases sends aliases the way the service encodes an empty map: [].
func (b *ListBuilder) WithoutAliases() *ListBuilder {
	b.fields = b.fields.set("aliases", []string{})
	return b
}

func (b *ListBuilder) WithLink(link string) *ListBuilder {
	b.fields = b.fields.set("link", link)
	return b
}

// WithoutLink drops the member link from the index entry.
func (b *ListBuilder) WithoutLink() *ListBuilder {
	b.noLink = true
	b.fields = b.fields.without("link")
	return b
}

func (b *ListBuilder) WithMembers(members ...*RecordBuilder) *ListBuilder {
	b.members = members
	return b
}

func (b *ListBuilder) MembersPayload() json.RawMessage {
	return DataPayload(b.members...)
}

// CustomlistsPayload renders the customlists index keyed by list id, in order.
func CustomlistsPayload(lists ...*ListBuilder) json.RawMessage {
	index := object{}
	for _, l := range lists {
		index = append(index, field{key: strconv.Itoa(l.id), value: l.fields})
	}
	return mustJSON(index)
}
