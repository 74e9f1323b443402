package pyast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModule = `"""Sample module."""
import os
import hopsworks_apigen as apigen
import a.b.c
from hopsworks_apigen import public, also_available_as as internal
from . import sibling
from ..parent.mod import thing as other

CONSTANT = 3
pub = apigen.public


@public
def bare():
    pass


@public("pkg.api.login", "", order=-2)
@internal("pkg._compat.login")
def login(host, port=443):
    pass


@apigen.deprecated("pkg.api.new", "pkg.api.newer", available_until="4.0", public_name=None)
class Old:
    def method(self):
        pass


@public(
    "pkg.api." "Joined",  # implicit concatenation
    order=0x10,
)
async def joined():
    pass


@public(some_variable, f"pkg.{x}")
def dynamic():
    pass


class Plain:
    pass
`

func parseSample(t *testing.T, src string) *Module {
	t.Helper()
	mod, err := NewParser().Parse(context.Background(), []byte(src), "sample.py")
	require.NoError(t, err)
	return mod
}

func members(mod *Module, kind MemberKind) map[string]Member {
	out := make(map[string]Member)
	for _, m := range mod.Members {
		if m.Kind == kind {
			out[m.Name] = m
		}
	}
	return out
}

func TestParse_Imports(t *testing.T) {
	mod := parseSample(t, sampleModule)
	assert.False(t, mod.SyntaxErrors)

	imports := members(mod, MemberImport)
	want := map[string]Import{
		"os":       {Path: "os"},
		"apigen":   {Path: "hopsworks_apigen"},
		"a":        {Path: "a"},
		"public":   {Path: "hopsworks_apigen.public"},
		"internal": {Path: "hopsworks_apigen.also_available_as"},
		"sibling":  {Level: 1, Path: "sibling"},
		"other":    {Level: 2, Path: "parent.mod.thing"},
	}
	require.Len(t, imports, len(want))
	for name, imp := range want {
		got, ok := imports[name]
		require.True(t, ok, "missing import %s", name)
		assert.Equal(t, imp, *got.Import, name)
	}
}

func TestParse_Assignments(t *testing.T) {
	mod := parseSample(t, sampleModule)
	assigns := members(mod, MemberAssign)

	assert.Equal(t, "", assigns["CONSTANT"].Ref)
	assert.Equal(t, "apigen.public", assigns["pub"].Ref)
}

func TestParse_Definitions(t *testing.T) {
	mod := parseSample(t, sampleModule)
	funcs := members(mod, MemberFunction)
	classes := members(mod, MemberClass)

	require.Contains(t, funcs, "bare")
	bare := funcs["bare"]
	require.Len(t, bare.Decorators, 1)
	assert.Equal(t, Decorator{Callee: "public", Line: 13}, bare.Decorators[0])

	login := funcs["login"]
	require.Len(t, login.Decorators, 2)
	pub := login.Decorators[0]
	assert.Equal(t, "public", pub.Callee)
	assert.True(t, pub.Call)
	require.Len(t, pub.Args, 2)
	assert.Equal(t, "pkg.api.login", pub.Args[0].Str)
	assert.Equal(t, ValueString, pub.Args[1].Kind)
	assert.Equal(t, "", pub.Args[1].Str)
	order, ok := pub.Keyword("order")
	require.True(t, ok)
	assert.Equal(t, ValueInt, order.Kind)
	assert.Equal(t, -2, order.Int)
	assert.Equal(t, "internal", login.Decorators[1].Callee)
	assert.Equal(t, "pkg._compat.login", login.Decorators[1].Args[0].Str)

	old := classes["Old"]
	require.Len(t, old.Decorators, 1)
	dep := old.Decorators[0]
	assert.Equal(t, "apigen.deprecated", dep.Callee)
	assert.Equal(t, []string{"pkg.api.new", "pkg.api.newer"}, []string{dep.Args[0].Str, dep.Args[1].Str})
	until, _ := dep.Keyword("available_until")
	assert.Equal(t, "4.0", until.Str)
	name, _ := dep.Keyword("public_name")
	assert.Equal(t, ValueNone, name.Kind)

	joined := funcs["joined"]
	require.Len(t, joined.Decorators, 1)
	assert.Equal(t, "pkg.api.Joined", joined.Decorators[0].Args[0].Str)
	joinedOrder, _ := joined.Decorators[0].Keyword("order")
	assert.Equal(t, 16, joinedOrder.Int)

	dynamic := funcs["dynamic"]
	require.Len(t, dynamic.Decorators[0].Args, 2)
	assert.Equal(t, ValueOther, dynamic.Decorators[0].Args[0].Kind)
	assert.Equal(t, "some_variable", dynamic.Decorators[0].Args[0].Text)
	assert.Equal(t, ValueOther, dynamic.Decorators[0].Args[1].Kind)

	assert.Contains(t, classes, "Plain")
	assert.Empty(t, classes["Plain"].Decorators)
	assert.NotContains(t, funcs, "method", "methods are not module-scope members")
}

func TestParse_SourceOrder(t *testing.T) {
	mod := parseSample(t, "from x import a\na = 1\ndef a():\n    pass\n")
	require.Len(t, mod.Members, 3)
	assert.Equal(t, []MemberKind{MemberImport, MemberAssign, MemberFunction},
		[]MemberKind{mod.Members[0].Kind, mod.Members[1].Kind, mod.Members[2].Kind})
}

func TestParse_SyntaxErrorsArePartial(t *testing.T) {
	mod := parseSample(t, "def ok():\n    pass\n\ndef broken(:\n")
	assert.True(t, mod.SyntaxErrors)
	assert.Contains(t, members(mod, MemberFunction), "ok")
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), []byte{0xff, 0xfe}, "bad.py")
	assert.ErrorIs(t, err, ErrInvalidContent)
}
