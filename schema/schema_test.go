package schema

import (
	"testing"
)

type diagnosis struct {
	Base
	Condition string `json:"condition"`
	Severity  string `json:"severity"`
}

func TestStringifyString(t *testing.T) {
	s := NewString("what are the symptoms of flu?")
	if got := Stringify(*s); got != "what are the symptoms of flu?" {
		t.Errorf("expect passthrough, got:%s", got)
	}
}

func TestStringifyStruct(t *testing.T) {
	v := diagnosis{Condition: "influenza", Severity: "mild"}
	want := `{"condition":"influenza","severity":"mild"}`
	if got := Stringify(v); got != want {
		t.Errorf("expect:%s, got:%s", want, got)
	}
}

func TestStringUnmarshal(t *testing.T) {
	var s String
	if err := s.Unmarshal([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if s.String() != "hello" {
		t.Errorf("expect:hello, got:%s", s.String())
	}
}

func TestToBytes(t *testing.T) {
	if got := string(ToBytes(String("plain"))); got != "plain" {
		t.Errorf("expect:plain, got:%s", got)
	}
	v := diagnosis{Condition: "asthma"}
	want := `{"condition":"asthma","severity":""}`
	if got := string(ToBytes(v)); got != want {
		t.Errorf("expect:%s, got:%s", want, got)
	}
}
