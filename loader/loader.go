// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime. Lua
// declares the data (rooms, objects, smells, flavor text); behavior
// hooks are plain Go, attached by the content package after loading.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/mishap/engine/world"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game    *lua.LTable
	rooms   []rawRoom
	objects []rawObject
	smells  *lua.LTable
	eggs    *lua.LTable
	deaths  *lua.LTable
}

// Load reads all .lua files from dir and compiles them into a World.
func Load(dir string) (*world.World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	var sources []namedSource
	for _, name := range sortedLuaFiles(names) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		sources = append(sources, namedSource{name: name, src: string(data)})
	}
	return load(sources)
}

// LoadFS is Load over an fs.FS, for embedded content.
func LoadFS(fsys fs.FS, dir string) (*world.World, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	var sources []namedSource
	for _, name := range sortedLuaFiles(names) {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		sources = append(sources, namedSource{name: name, src: string(data)})
	}
	return load(sources)
}

// LoadString compiles a single in-memory Lua source. Used by tests and
// embedded single-file games.
func LoadString(name, src string) (*world.World, error) {
	return load([]namedSource{{name: name, src: src}})
}

type namedSource struct {
	name string
	src  string
}

func load(sources []namedSource) (*world.World, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, s := range sources {
		if err := L.DoString(s.src); err != nil {
			return nil, fmt.Errorf("executing %s: %w", s.name, err)
		}
	}

	w, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}
	if err := Validate(w); err != nil {
		return nil, err
	}
	return w, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Remove math.randomseed to preserve determinism.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
