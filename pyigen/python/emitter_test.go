package python

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thriftpyi/thriftpyi/internal/testfixtures"
	"github.com/thriftpyi/thriftpyi/pyigen/provider"
	"github.com/thriftpyi/thriftpyi/pyigen/sink"
	"github.com/thriftpyi/thriftpyi/thriftmod"
)

const zooStub = `# Code generated by thriftpyi. DO NOT EDIT.
# module: zoo

from enum import IntEnum
from typing import *

from thriftpy2.thrift import TException

import shared


class Color(IntEnum):
    RED = 0
    GREEN = 1


class Pet:
    name: str
    friends: List[Pet]
    owner: shared.Owner
    tags: Dict[str, int]
    color: int

    def __init__(self, name: str = ..., friends: List[Pet] = ..., owner: shared.Owner = ..., tags: Dict[str, int] = ..., color: int = ...) -> None: ...


class NotFound(TException):
    message: str
    code: Optional[int]

    def __init__(self, message: str = ..., code: Optional[int] = ...) -> None: ...


class Zoo:
    def ping(self) -> None: ...
    def get(self, name: str, deep: Optional[bool], limit: int) -> Pet: ...
    def owners(self) -> List[shared.Owner]: ...
`

func TestEmitter_Zoo(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEmitter(Config{EmitInit: true}).Emit(&buf, provider.NewInterface(testfixtures.Zoo())); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if got := buf.String(); got != zooStub {
		t.Errorf("Emit() mismatch\ngot:\n%s\nwant:\n%s", got, zooStub)
	}
}

func TestEmitter_Options(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		want    []string
		notWant []string
	}{
		{
			name:   "async",
			config: Config{Async: true},
			want: []string{
				"    async def ping(self) -> None: ...",
				"    async def get(self, name: str, deep: Optional[bool], limit: int) -> Pet: ...",
			},
		},
		{
			name:    "no init",
			config:  Config{},
			notWant: []string{"__init__"},
		},
		{
			name:   "indent",
			config: Config{IndentSize: 2},
			want:   []string{"\n  name: str\n", "\n  RED = 0\n"},
		},
		{
			name:   "frontmatter",
			config: Config{Frontmatter: "# pyright: strict\n"},
			want:   []string{"# module: zoo\n# pyright: strict\n\nfrom enum import IntEnum\n"},
		},
		{
			name:    "exception base",
			config:  Config{ExceptionBase: "Exception", ExceptionImport: "import builtins"},
			want:    []string{"class NotFound(Exception):", "\nimport builtins\n"},
			notWant: []string{"thriftpy2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewEmitter(tt.config).Emit(&buf, provider.NewInterface(testfixtures.Zoo())); err != nil {
				t.Fatalf("Emit() error = %v", err)
			}
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output contains %q\n%s", w, got)
				}
			}
		})
	}
}

func TestEmitter_TypesOnly(t *testing.T) {
	mod := thriftmod.NewModule("shared")
	mod.Bind("Empty", thriftmod.NewStruct("Empty", "shared"))

	var buf bytes.Buffer
	if err := NewEmitter(Config{}).Emit(&buf, provider.NewInterface(mod)); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	want := "# Code generated by thriftpyi. DO NOT EDIT.\n" +
		"# module: shared\n" +
		"\n" +
		"from typing import *\n" +
		"\n\n" +
		"class Empty:\n" +
		"    ...\n"
	if got := buf.String(); got != want {
		t.Errorf("Emit() = %q, want %q", got, want)
	}
}

func TestEmitter_ServiceBase(t *testing.T) {
	base := thriftmod.NewService("Base", "shared")
	svc := thriftmod.NewService("Child", "zoo")
	svc.Parent = base
	mod := thriftmod.NewModule("zoo")
	mod.Bind("Child", svc)

	var buf bytes.Buffer
	if err := NewEmitter(Config{}).Emit(&buf, provider.NewInterface(mod)); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if want := "class Child(shared.Base):\n    ...\n"; !strings.HasSuffix(buf.String(), want) {
		t.Errorf("Emit() = %q, want suffix %q", buf.String(), want)
	}
}

func TestEmitter_Imports(t *testing.T) {
	base := thriftmod.NewModule("base")
	thing := thriftmod.NewStruct("Thing", "base")
	base.Bind("Thing", thing)
	mid := thriftmod.NewModule("mid")
	mid.Bind("base", base)
	shared := testfixtures.Shared()
	owner, _ := shared.Lookup("Owner")

	top := thriftmod.NewStruct("Top", "top")
	top.Spec.Set(1, thriftmod.Spec{thriftmod.TStruct, "thing", thing, true})
	top.Spec.Set(2, thriftmod.Spec{thriftmod.TStruct, "owner", owner, true})
	mod := thriftmod.NewModule("top")
	mod.Bind("mid", mid)
	mod.Bind("t", shared)
	mod.Bind("Top", top)

	var buf bytes.Buffer
	if err := NewEmitter(Config{}).Emit(&buf, provider.NewInterface(mod)); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	for _, want := range []string{
		"from typing import *\n\nimport base\nimport mid\nimport shared as t\n",
		"    thing: base.Thing\n",
		"    owner: t.Owner\n",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Emit() = %q, want it to contain %q", buf.String(), want)
		}
	}
}

func TestEmitter_MultipleServices(t *testing.T) {
	mod := thriftmod.NewModule("multi")
	mod.Bind("A", thriftmod.NewService("A", "multi"))
	mod.Bind("B", thriftmod.NewService("B", "multi"))

	var buf bytes.Buffer
	err := NewEmitter(Config{}).Emit(&buf, provider.NewInterface(mod))
	var countErr *provider.ServiceCountError
	if !errors.As(err, &countErr) {
		t.Fatalf("Emit() error = %v, want *provider.ServiceCountError", err)
	}
}

func TestEmitter_UnsupportedField(t *testing.T) {
	bad := thriftmod.NewStruct("Bad", "zoo")
	bad.Spec.Set(1, thriftmod.Spec{thriftmod.TMap, "m", thriftmod.TString, true})
	mod := thriftmod.NewModule("zoo")
	mod.Bind("Bad", bad)

	var buf bytes.Buffer
	err := NewEmitter(Config{}).Emit(&buf, provider.NewInterface(mod))
	if err == nil || !strings.Contains(err.Error(), "struct Bad") {
		t.Errorf("Emit() error = %v, want struct Bad error", err)
	}
}

func TestGenerator(t *testing.T) {
	out := sink.NewMemorySink()
	g := &Generator{}
	if g.Name() != "python" {
		t.Errorf("Name() = %q, want python", g.Name())
	}

	f, err := g.Generate(context.Background(), provider.NewInterface(testfixtures.Zoo()), GenerateOptions{
		Sink:   out,
		Config: Config{EmitInit: true},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if f.Path != "zoo.pyi" {
		t.Errorf("Path = %q, want zoo.pyi", f.Path)
	}
	if f.Size != int64(len(zooStub)) {
		t.Errorf("Size = %d, want %d", f.Size, len(zooStub))
	}
	if got := string(out.Get("zoo.pyi")); got != zooStub {
		t.Errorf("sink content mismatch\n%s", got)
	}

	if _, err := g.Generate(context.Background(), provider.NewInterface(testfixtures.Zoo()), GenerateOptions{}); err == nil {
		t.Error("Generate() without sink succeeded, want error")
	}
}
