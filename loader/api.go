package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Room "id" { ... } — curried: Room("id") returns a function that
	// takes the definition table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawRoom{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Object "id" { ... } — curried.
	L.SetGlobal("Object", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.objects = append(coll.objects, rawObject{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Smells { default = "...", moat = "...", ... }
	L.SetGlobal("Smells", L.NewFunction(func(L *lua.LState) int {
		coll.smells = L.CheckTable(1)
		return 0
	}))

	// EasterEggs { xyzzy = "...", ... }
	L.SetGlobal("EasterEggs", L.NewFunction(func(L *lua.LState) int {
		coll.eggs = L.CheckTable(1)
		return 0
	}))

	// Deaths { quips = {...}, epilogue = {...} }
	L.SetGlobal("Deaths", L.NewFunction(func(L *lua.LState) int {
		coll.deaths = L.CheckTable(1)
		return 0
	}))
}
