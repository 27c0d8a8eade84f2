package schema

import "encoding/json"

// Schema is the message content interface shared by agents and tools.
type Schema interface {
	String() string
}

// Stringify renders a schema as the text sent to a language model.
// String scalars pass through untouched, structured schemas marshal to JSON.
func Stringify(s Schema) string {
	switch v := s.(type) {
	case String:
		return string(v)
	case *String:
		return string(*v)
	}
	if v := s.String(); v != "" {
		return v
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

func ToBytes(s Schema) []byte {
	switch v := s.(type) {
	case String:
		return []byte(v)
	case *String:
		return []byte(*v)
	}
	bs, _ := json.Marshal(s)
	return bs
}
