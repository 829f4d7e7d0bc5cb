package edsearch

// Item is a raw content item returned by a store query. Fields exposes the
// store's named fields, including any related sub-objects the query included.
type Item struct {
	// ID is the stable identifier of the item.
	ID string

	// Fields contains the item's data as key-value pairs.
	Fields map[string]interface{}
}

// String returns the named field as a string, or "" when the field is
// missing or not a string.
func (it Item) String(field string) string {
	s, _ := it.Fields[field].(string)
	return s
}

// Strings returns the named field as a string slice. It accepts both
// []string and the []interface{} shape JSON decoding produces.
func (it Item) Strings(field string) []string {
	switch v := it.Fields[field].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Map returns the named field as a nested object, or nil.
func (it Item) Map(field string) map[string]interface{} {
	m, _ := it.Fields[field].(map[string]interface{})
	return m
}
