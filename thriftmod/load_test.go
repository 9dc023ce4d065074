package thriftmod

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const sharedThrift = `
typedef i64 Timestamp

struct Owner {
    1: required string name
    2: optional Timestamp since
}

service Base {
    void ping()
}
`

const zooThrift = `
include "shared.thrift"

const i32 MAX_PETS = 10
const string GREETING = "hi"

typedef list<Pet> Pets

enum Color {
    RED
    GREEN = 5
    BLUE
}

struct Pet {
    1: required string name
    2: optional Pets friends
    3: shared.Owner owner
    4: map<string, shared.Timestamp> seen
    5: Color color
    6: binary photo
    7: set<i8> flags
}

union Choice {
    1: i32 number
    2: string text
}

exception NotFound {
    1: required string message
    2: optional i32 code
}

service Zoo extends shared.Base {
    Pet get(1: string name, 2: optional bool deep) throws (1: NotFound missing)
    oneway void feed(1: list<Pet> pets)
}
`

func loadZoo(t *testing.T) *Module {
	t.Helper()
	dir := writeFiles(t, map[string]string{
		"shared.thrift": sharedThrift,
		"zoo.thrift":    zooThrift,
	})
	mod, err := NewLoader().Load(context.Background(), filepath.Join(dir, "zoo.thrift"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return mod
}

func TestLoader_Bindings(t *testing.T) {
	mod := loadZoo(t)

	if mod.Name() != "zoo" {
		t.Errorf("Name() = %q, want zoo", mod.Name())
	}
	want := []string{"shared", "MAX_PETS", "GREETING", "Color", "Pet", "Choice", "NotFound", "Zoo"}
	if got := mod.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if v, _ := mod.Lookup("MAX_PETS"); v != int64(10) {
		t.Errorf("MAX_PETS = %#v, want int64(10)", v)
	}
	if v, _ := mod.Lookup("GREETING"); v != "hi" {
		t.Errorf("GREETING = %#v, want %q", v, "hi")
	}
	if v, _ := mod.Lookup("shared"); v.(*Module).Name() != "shared" {
		t.Errorf("shared binding = %v, want module shared", v)
	}
	if v, _ := mod.Lookup("Choice"); reflect.TypeOf(v) != reflect.TypeOf(&Struct{}) {
		t.Errorf("Choice = %T, want *Struct", v)
	}
	if v, _ := mod.Lookup("NotFound"); reflect.TypeOf(v) != reflect.TypeOf(&Exception{}) {
		t.Errorf("NotFound = %T, want *Exception", v)
	}
}

func TestLoader_EnumValues(t *testing.T) {
	v, _ := loadZoo(t).Lookup("Color")
	want := []EnumValue{{"RED", 0}, {"GREEN", 5}, {"BLUE", 6}}
	if got := v.(*Enum).NamesToValues(); !reflect.DeepEqual(got, want) {
		t.Errorf("NamesToValues() = %v, want %v", got, want)
	}
}

func TestLoader_StructSpec(t *testing.T) {
	mod := loadZoo(t)
	v, _ := mod.Lookup("Pet")
	pet := v.(*Struct)
	sharedMod, _ := mod.Lookup("shared")
	owner, _ := sharedMod.(*Module).Lookup("Owner")

	tests := []struct {
		pos  int
		want Spec
	}{
		{1, Spec{TString, "name", true}},
		{2, Spec{TList, "friends", Pair{TStruct, pet}, false}},
		{3, Spec{TStruct, "owner", owner, false}},
		{4, Spec{TMap, "seen", Pair{TString, TI64}, false}},
		{5, Spec{TI32, "color", false}},
		{6, Spec{TString, "photo", false}},
		{7, Spec{TSet, "flags", TByte, false}},
	}
	for _, tt := range tests {
		got, ok := pet.Spec.Get(tt.pos)
		if !ok {
			t.Errorf("Pet spec %d missing", tt.pos)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Pet spec %d = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestLoader_Service(t *testing.T) {
	mod := loadZoo(t)
	v, _ := mod.Lookup("Zoo")
	svc := v.(*Service)

	if got := svc.ThriftServices(); !reflect.DeepEqual(got, []string{"get", "feed"}) {
		t.Errorf("ThriftServices() = %v, want [get feed]", got)
	}
	if svc.Parent == nil || svc.Parent.Name != "Base" || svc.Parent.Module != "shared" {
		t.Errorf("Parent = %v, want shared.Base", svc.Parent)
	}

	args, ok := svc.Payload("get_args")
	if !ok {
		t.Fatal("get_args missing")
	}
	if s, _ := args.Spec.Get(1); s[len(s)-1] != true {
		t.Errorf("get_args name required = %v, want true", s[len(s)-1])
	}
	if s, _ := args.Spec.Get(2); s[len(s)-1] != false {
		t.Errorf("get_args deep required = %v, want false", s[len(s)-1])
	}

	result, _ := svc.Payload("get_result")
	if got := result.Spec.Positions(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("get_result positions = %v, want [0 1]", got)
	}
	if s, _ := result.Spec.Get(0); s[1] != "success" {
		t.Errorf("get_result[0] = %v, want success", s)
	}
	if s, _ := result.Spec.Get(1); s[1] != "missing" {
		t.Errorf("get_result[1] = %v, want missing", s)
	}

	feed, _ := svc.Payload("feed_result")
	if _, ok := feed.Spec.Get(0); ok {
		t.Error("feed_result has a success field, want none")
	}
}

func TestLoader_SharesIncludes(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"shared.thrift": sharedThrift,
		"a.thrift":      "include \"shared.thrift\"\nstruct A { 1: shared.Owner o }\n",
		"b.thrift":      "include \"shared.thrift\"\nstruct B { 1: shared.Owner o }\n",
	})
	l := NewLoader()
	ctx := context.Background()

	var wg sync.WaitGroup
	mods := make([]*Module, 2)
	for i, name := range []string{"a.thrift", "b.thrift"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := l.Load(ctx, filepath.Join(dir, name))
			if err != nil {
				t.Errorf("Load(%s) error = %v", name, err)
				return
			}
			mods[i] = m
		}()
	}
	wg.Wait()
	if mods[0] == nil || mods[1] == nil {
		t.FailNow()
	}

	sa, _ := mods[0].Lookup("shared")
	sb, _ := mods[1].Lookup("shared")
	if sa != sb {
		t.Error("included module loaded twice")
	}
}

func TestLoader_IncludeDirs(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lib/shared.thrift": sharedThrift,
		"src/zoo.thrift":    "include \"shared.thrift\"\nstruct Z { 1: shared.Owner o }\n",
	})

	if _, err := NewLoader().Load(context.Background(), filepath.Join(dir, "src", "zoo.thrift")); err == nil {
		t.Error("Load() without include dir succeeded, want error")
	}

	mod, err := NewLoader(filepath.Join(dir, "lib")).Load(context.Background(), filepath.Join(dir, "src", "zoo.thrift"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := mod.Lookup("shared"); !ok {
		t.Error("include binding missing")
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name: "include cycle",
			files: map[string]string{
				"main.thrift": "include \"a.thrift\"\n",
				"a.thrift":    "include \"b.thrift\"\n",
				"b.thrift":    "include \"a.thrift\"\n",
			},
			wantErr: "include cycle",
		},
		{
			name:    "missing include",
			files:   map[string]string{"main.thrift": "include \"nope.thrift\"\n"},
			wantErr: `include "nope.thrift" not found`,
		},
		{
			name:    "syntax error",
			files:   map[string]string{"main.thrift": "struct {\n"},
			wantErr: "parse",
		},
		{
			name:    "unknown type",
			files:   map[string]string{"main.thrift": "struct A { 1: Missing m }\n"},
			wantErr: `unknown type "Missing"`,
		},
		{
			name:    "typedef cycle",
			files:   map[string]string{"main.thrift": "typedef A B\ntypedef B A\n"},
			wantErr: "typedef cycle",
		},
		{
			name:    "unknown parent service",
			files:   map[string]string{"main.thrift": "service S extends Missing {}\n"},
			wantErr: `unknown service "Missing"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			_, err := NewLoader().Load(context.Background(), filepath.Join(dir, "main.thrift"))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	dir := writeFiles(t, map[string]string{"zoo.thrift": "struct A {}\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().Load(ctx, filepath.Join(dir, "zoo.thrift")); err == nil {
		t.Error("Load() with canceled context succeeded, want error")
	}
}
