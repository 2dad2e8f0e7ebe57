package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/types"
)

// rawRoom holds a room table before compilation.
type rawRoom struct {
	id    string
	table *lua.LTable
}

// rawObject holds an object table before compilation.
type rawObject struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// tableToStringSlice converts an array-style Lua table to []string.
func tableToStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into a World.
func compile(coll *collector) (*world.World, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	w := &world.World{
		Meta:    compileMeta(coll.game),
		Rooms:   map[string]*types.Room{},
		Objects: map[string]*types.Object{},

		WinRoom:   getString(coll.game, "win_room"),
		WinObject: getString(coll.game, "win_object"),
	}

	for _, raw := range coll.rooms {
		if _, dup := w.Rooms[raw.id]; dup {
			return nil, fmt.Errorf("duplicate room ID %q", raw.id)
		}
		w.Rooms[raw.id] = compileRoom(raw)
	}

	for _, raw := range coll.objects {
		if _, dup := w.Objects[raw.id]; dup {
			return nil, fmt.Errorf("duplicate object ID %q", raw.id)
		}
		w.Objects[raw.id] = compileObject(raw)
		w.ObjectOrder = append(w.ObjectOrder, raw.id)
	}

	if coll.smells != nil {
		w.Smells = map[string]string{}
		coll.smells.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				return
			}
			vs, ok := v.(lua.LString)
			if !ok {
				return
			}
			if string(ks) == "default" {
				w.SmellDefault = string(vs)
				return
			}
			w.Smells[string(ks)] = string(vs)
		})
	}

	if coll.eggs != nil {
		w.EasterEggs = tableToStringMap(coll.eggs)
	}

	if coll.deaths != nil {
		w.DeathQuips = tableToStringSlice(getTable(coll.deaths, "quips"))
		w.DeathEpilogue = tableToStringSlice(getTable(coll.deaths, "epilogue"))
	}

	return w, nil
}

func compileMeta(tbl *lua.LTable) types.Meta {
	return types.Meta{
		Title:    getString(tbl, "title"),
		Author:   getString(tbl, "author"),
		Version:  getString(tbl, "version"),
		Start:    getString(tbl, "start"),
		Intro:    tableToStringSlice(getTable(tbl, "intro")),
		MaxScore: getInt(tbl, "max_score"),
	}
}

func compileRoom(raw rawRoom) *types.Room {
	tbl := raw.table
	room := &types.Room{
		ID:          raw.id,
		Description: getString(tbl, "description"),
		Exits:       tableToStringMap(getTable(tbl, "exits")),
	}

	// examine = { { keywords = {"tree", "oak"}, text = "..." }, ... }
	// Entries with Go behavior omit text; hooks fill in Run afterwards.
	if exTbl := getTable(tbl, "examine"); exTbl != nil {
		for i := 1; i <= exTbl.MaxN(); i++ {
			entry, ok := exTbl.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			room.Examine = append(room.Examine, types.ExamineTarget{
				Keywords: tableToStringSlice(getTable(entry, "keywords")),
				Text:     getString(entry, "text"),
			})
		}
	}

	return room
}

func compileObject(raw rawObject) *types.Object {
	tbl := raw.table
	return &types.Object{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Aliases:     tableToStringSlice(getTable(tbl, "aliases")),
		Location:    getString(tbl, "location"),
		Takeable:    getBool(tbl, "takeable", false),
		Description: getString(tbl, "description"),
	}
}
