// Package testfixtures builds in-memory Thrift modules for tests.
package testfixtures

import "github.com/thriftpyi/thriftpyi/thriftmod"

// Shared returns the "shared" module: one struct that other fixtures
// reference across module boundaries.
//
//	struct Owner { 1: required string name }
func Shared() *thriftmod.Module {
	mod := thriftmod.NewModule("shared")
	owner := thriftmod.NewStruct("Owner", "shared")
	owner.Spec.Set(1, thriftmod.Spec{thriftmod.TString, "name", true})
	mod.Bind("Owner", owner)
	return mod
}

// Zoo returns a module with one binding of every kind:
//
//	include "shared.thrift"
//	const i32 MAX_PETS = 10
//	enum Color { RED = 0, GREEN = 1 }
//	struct Pet {
//	    1: required string name
//	    2: optional list<Pet> friends
//	    3: optional shared.Owner owner
//	    4: optional map<string, i64> tags
//	    5: optional Color color
//	}
//	exception NotFound { 1: required string message, 2: optional i32 code }
//	service Zoo {
//	    void ping()
//	    Pet get(1: string name, 2: optional bool deep, 3: required i32 limit) throws (1: NotFound missing)
//	    list<shared.Owner> owners()
//	}
func Zoo() *thriftmod.Module {
	shared := Shared()
	owner, _ := shared.Lookup("Owner")

	mod := thriftmod.NewModule("zoo")
	mod.Bind("shared", shared)
	mod.Bind("MAX_PETS", int64(10))

	color := thriftmod.NewEnum("Color", "zoo")
	color.Add("RED", 0)
	color.Add("GREEN", 1)
	mod.Bind("Color", color)

	pet := thriftmod.NewStruct("Pet", "zoo")
	pet.Spec.Set(1, thriftmod.Spec{thriftmod.TString, "name", true})
	pet.Spec.Set(2, thriftmod.Spec{thriftmod.TList, "friends", thriftmod.Pair{thriftmod.TStruct, pet}, false})
	pet.Spec.Set(3, thriftmod.Spec{thriftmod.TStruct, "owner", owner, false})
	pet.Spec.Set(4, thriftmod.Spec{thriftmod.TMap, "tags", thriftmod.Pair{thriftmod.TString, thriftmod.TI64}, false})
	pet.Spec.Set(5, thriftmod.Spec{thriftmod.TI32, "color", false})
	mod.Bind("Pet", pet)

	notFound := thriftmod.NewException("NotFound", "zoo")
	notFound.Spec.Set(1, thriftmod.Spec{thriftmod.TString, "message", true})
	notFound.Spec.Set(2, thriftmod.Spec{thriftmod.TI32, "code", false})
	mod.Bind("NotFound", notFound)

	svc := thriftmod.NewService("Zoo", "zoo")

	svc.AddMethod("ping", thriftmod.NewStruct("ping_args", "zoo"), thriftmod.NewStruct("ping_result", "zoo"))

	getArgs := thriftmod.NewStruct("get_args", "zoo")
	getArgs.Spec.Set(1, thriftmod.Spec{thriftmod.TString, "name", true})
	getArgs.Spec.Set(2, thriftmod.Spec{thriftmod.TBool, "deep", false})
	getArgs.Spec.Set(3, thriftmod.Spec{thriftmod.TI32, "limit", true})
	getResult := thriftmod.NewStruct("get_result", "zoo")
	getResult.Spec.Set(0, thriftmod.Spec{thriftmod.TStruct, "success", pet, false})
	getResult.Spec.Set(1, thriftmod.Spec{thriftmod.TStruct, "missing", &notFound.Struct, false})
	svc.AddMethod("get", getArgs, getResult)

	ownersResult := thriftmod.NewStruct("owners_result", "zoo")
	ownersResult.Spec.Set(0, thriftmod.Spec{thriftmod.TList, "success", thriftmod.Pair{thriftmod.TStruct, owner}, false})
	svc.AddMethod("owners", thriftmod.NewStruct("owners_args", "zoo"), ownersResult)

	mod.Bind("Zoo", svc)
	return mod
}

