package thriftmod

import (
	"reflect"
	"testing"
)

func TestModule_Bind(t *testing.T) {
	m := NewModule("zoo")
	m.Bind("b", 1)
	m.Bind("a", 2)
	m.Bind("b", 3)

	if got, want := m.Names(), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if v, ok := m.Lookup("b"); !ok || v != 3 {
		t.Errorf("Lookup(b) = %v, %v, want 3, true", v, ok)
	}
	if _, ok := m.Lookup("missing"); ok {
		t.Error("Lookup(missing) found a binding")
	}

	names := m.Names()
	names[0] = "mutated"
	if m.Names()[0] != "b" {
		t.Error("Names() returned the internal slice")
	}
}

func TestSpecTable(t *testing.T) {
	tbl := NewSpecTable()
	tbl.Set(2, Spec{TString, "b", true})
	tbl.Set(0, Spec{TI32, "a", false})
	tbl.Set(2, Spec{TI64, "b", true})

	if got, want := tbl.Positions(), []int{2, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Positions() = %v, want %v", got, want)
	}
	if s, ok := tbl.Get(2); !ok || s[0] != TI64 {
		t.Errorf("Get(2) = %v, %v, want replaced spec", s, ok)
	}
	if got := tbl.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := tbl.Values(); len(got) != 2 || got[1][1] != "a" {
		t.Errorf("Values() = %v", got)
	}

	var empty *SpecTable
	if empty.Len() != 0 || empty.Values() != nil || empty.Positions() != nil {
		t.Error("nil SpecTable is not empty")
	}
	if _, ok := empty.Get(0); ok {
		t.Error("nil SpecTable Get(0) found a spec")
	}
}

func TestException_Args(t *testing.T) {
	e := NewException("NotFound", "zoo")
	e.Spec.Set(1, Spec{TString, "message", true})
	e.Spec.Set(2, Spec{TI32, "code", false})

	if got, want := e.Args(), []string{"message", "code"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
	if got := e.TypeName(); got != "NotFound" {
		t.Errorf("TypeName() = %q, want NotFound", got)
	}
	if got := e.String(); got != "zoo.NotFound" {
		t.Errorf("String() = %q, want zoo.NotFound", got)
	}
}

func TestEnum_NamesToValues(t *testing.T) {
	e := NewEnum("Color", "zoo")
	e.Add("RED", 0)
	e.Add("GREEN", 1)

	want := []EnumValue{{"RED", 0}, {"GREEN", 1}}
	if got := e.NamesToValues(); !reflect.DeepEqual(got, want) {
		t.Errorf("NamesToValues() = %v, want %v", got, want)
	}
}

func TestService_Payload(t *testing.T) {
	s := NewService("Zoo", "zoo")
	args := NewStruct("ping_args", "zoo")
	result := NewStruct("ping_result", "zoo")
	s.AddMethod("ping", args, result)

	if got := s.ThriftServices(); !reflect.DeepEqual(got, []string{"ping"}) {
		t.Errorf("ThriftServices() = %v, want [ping]", got)
	}
	if p, ok := s.Payload("ping_args"); !ok || p != args {
		t.Errorf("Payload(ping_args) = %v, %v", p, ok)
	}
	if p, ok := s.Payload("ping_result"); !ok || p != result {
		t.Errorf("Payload(ping_result) = %v, %v", p, ok)
	}
	if _, ok := s.Payload("pong_args"); ok {
		t.Error("Payload(pong_args) found a payload")
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"zoo.thrift", "zoo"},
		{"/a/b/shared.thrift", "shared"},
		{"rel/dir/x.y.thrift", "x.y"},
	}
	for _, tt := range tests {
		if got := ModuleName(tt.path); got != tt.want {
			t.Errorf("ModuleName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
