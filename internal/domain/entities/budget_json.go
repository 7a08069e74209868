package entities

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// The budget document is semi-structured: the admin front-end and older
// import jobs write keys this service knows nothing about. Every type below
// keeps those keys in Extra so load -> save never drops them.

var knownKeysCache sync.Map // reflect.Type -> map[string]struct{}

func knownKeys(t reflect.Type) map[string]struct{} {
	if v, ok := knownKeysCache.Load(t); ok {
		return v.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	knownKeysCache.Store(t, keys)
	return keys
}

func marshalWithExtra(v any, extra Extra) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	known := knownKeys(reflect.TypeOf(v))
	for k, raw := range extra {
		if _, ok := known[k]; ok {
			continue
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

func unmarshalWithExtra(data []byte, v any) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	known := knownKeys(reflect.TypeOf(v).Elem())
	var extra Extra
	for k, raw := range m {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[k] = raw
	}
	return extra, nil
}

func (c ClientInfo) MarshalJSON() ([]byte, error) {
	type plain ClientInfo
	return marshalWithExtra(plain(c), c.Extra)
}

func (c *ClientInfo) UnmarshalJSON(data []byte) error {
	type plain ClientInfo
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*c = ClientInfo(p)
	c.Extra = extra
	return nil
}

func (m MenuSection) MarshalJSON() ([]byte, error) {
	type plain MenuSection
	return marshalWithExtra(plain(m), m.Extra)
}

func (m *MenuSection) UnmarshalJSON(data []byte) error {
	type plain MenuSection
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*m = MenuSection(p)
	m.Extra = extra
	return nil
}

func (s ServiceSection) MarshalJSON() ([]byte, error) {
	type plain ServiceSection
	return marshalWithExtra(plain(s), s.Extra)
}

func (s *ServiceSection) UnmarshalJSON(data []byte) error {
	type plain ServiceSection
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = ServiceSection(p)
	s.Extra = extra
	return nil
}

func (it MaterialItem) MarshalJSON() ([]byte, error) {
	type plain MaterialItem
	return marshalWithExtra(plain(it), it.Extra)
}

func (it *MaterialItem) UnmarshalJSON(data []byte) error {
	type plain MaterialItem
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*it = MaterialItem(p)
	it.Extra = extra
	return nil
}

func (m MaterialSection) MarshalJSON() ([]byte, error) {
	type plain MaterialSection
	return marshalWithExtra(plain(m), m.Extra)
}

func (m *MaterialSection) UnmarshalJSON(data []byte) error {
	type plain MaterialSection
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*m = MaterialSection(p)
	m.Extra = extra
	return nil
}

func (d DeplacementSection) MarshalJSON() ([]byte, error) {
	type plain DeplacementSection
	return marshalWithExtra(plain(d), d.Extra)
}

func (d *DeplacementSection) UnmarshalJSON(data []byte) error {
	type plain DeplacementSection
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*d = DeplacementSection(p)
	d.Extra = extra
	return nil
}

func (d Discount) MarshalJSON() ([]byte, error) {
	type plain Discount
	return marshalWithExtra(plain(d), d.Extra)
}

func (d *Discount) UnmarshalJSON(data []byte) error {
	type plain Discount
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*d = Discount(p)
	d.Extra = extra
	return nil
}

func (t BudgetTotals) MarshalJSON() ([]byte, error) {
	type plain BudgetTotals
	return marshalWithExtra(plain(t), t.Extra)
}

func (t *BudgetTotals) UnmarshalJSON(data []byte) error {
	type plain BudgetTotals
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*t = BudgetTotals(p)
	t.Extra = extra
	return nil
}

func (b Budget) MarshalJSON() ([]byte, error) {
	type plain Budget
	return marshalWithExtra(plain(b), b.Extra)
}

func (b *Budget) UnmarshalJSON(data []byte) error {
	type plain Budget
	var p plain
	extra, err := unmarshalWithExtra(data, &p)
	if err != nil {
		return err
	}
	*b = Budget(p)
	b.Extra = extra
	return nil
}
