package optparse

import (
	stderrs "errors"
	"testing"

	clierr "github.com/chriso345/clowncopterize/errors"
	"github.com/chriso345/gore/assert"
	"github.com/chriso345/gore/vital"
)

// cli is the rewritten form of a record with two clowntown flags.
type cli struct {
	Name           *string `desc:"Optional name to operate on"`
	ClowntownThis  bool    `arg:"long,default_value_if=Clowncopterize:true:true" desc:"Turn debugging information on"`
	ClowntownThat  bool    `arg:"long,default_value_if=Clowncopterize:true:true" desc:"lists test values"`
	Clowncopterize bool    `arg:"long" desc:"Turns all the clowntown flags on"`
}

func TestParse_DefaultToFalse(t *testing.T) {
	var c cli
	err := Parse(&c, []string{})
	vital.Nil(t, err)
	assert.False(t, c.ClowntownThis)
	assert.False(t, c.ClowntownThat)
	assert.False(t, c.Clowncopterize)
	assert.True(t, c.Name == nil)
}

func TestParse_AggregateSetsAll(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--clowncopterize"})
	vital.Nil(t, err)
	assert.True(t, c.ClowntownThis)
	assert.True(t, c.ClowntownThat)
	assert.True(t, c.Clowncopterize)
}

func TestParse_SingleFlagLeavesOthers(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--clowntown-this"})
	vital.Nil(t, err)
	assert.True(t, c.ClowntownThis)
	assert.False(t, c.ClowntownThat)
	assert.False(t, c.Clowncopterize)
}

func TestParse_ExplicitValueBeatsConditionalDefault(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--clowncopterize", "--clowntown-that=false"})
	vital.Nil(t, err)
	assert.True(t, c.ClowntownThis)
	assert.False(t, c.ClowntownThat)
}

func TestParse_AggregateExplicitFalse(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--clowncopterize", "false"})
	vital.Nil(t, err)
	assert.False(t, c.ClowntownThis)
	assert.False(t, c.Clowncopterize)
}

func TestParse_AggregateBoolSpellings(t *testing.T) {
	for _, value := range []string{"1", "t", "T", "TRUE", "True", "true"} {
		var c cli
		err := Parse(&c, []string{"--clowncopterize=" + value})
		vital.Nil(t, err)
		assert.True(t, c.Clowncopterize)
		assert.True(t, c.ClowntownThis)
		assert.True(t, c.ClowntownThat)
	}

	for _, value := range []string{"0", "f", "FALSE"} {
		var c cli
		err := Parse(&c, []string{"--clowncopterize=" + value})
		vital.Nil(t, err)
		assert.False(t, c.Clowncopterize)
		assert.False(t, c.ClowntownThis)
	}
}

func TestParse_PositionalAfterBoolFlag(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--clowncopterize", "bob"})
	vital.Nil(t, err)
	vital.NotNil(t, c.Name)
	assert.Equal(t, *c.Name, "bob")
	assert.True(t, c.ClowntownThat)
}

func TestParse_CustomAggregateName(t *testing.T) {
	target := struct {
		ClowntownThis    bool `arg:"long,default_value_if=ILiveInClowntown:true:true"`
		ClowntownThat    bool `arg:"long,default_value_if=ILiveInClowntown:true:true"`
		ILiveInClowntown bool `arg:"long"`
	}{}

	err := Parse(&target, []string{"--i-live-in-clowntown"})
	vital.Nil(t, err)
	assert.True(t, target.ClowntownThis)
	assert.True(t, target.ClowntownThat)
	assert.True(t, target.ILiveInClowntown)
}

func TestParse_ShortAndLongFlags(t *testing.T) {
	target := struct {
		Name    string `arg:"long,short=n" desc:"User name"`
		Age     int    `arg:"short=a,long"`
		Ratio   float64
		Verbose bool `arg:"short=v"`
	}{}

	err := Parse(&target, []string{"--name", "Alice", "-a", "30", "0.5", "-v"})
	assert.Nil(t, err)
	assert.Equal(t, target.Name, "Alice")
	assert.Equal(t, target.Age, 30)
	assert.Equal(t, target.Ratio, 0.5)
	assert.True(t, target.Verbose)
}

func TestParse_Defaults(t *testing.T) {
	target := struct {
		Port int    `arg:"long,default=8080"`
		Host string `arg:"long,default=localhost"`
	}{}

	err := Parse(&target, []string{"--host", "example.com"})
	assert.Nil(t, err)
	assert.Equal(t, target.Port, 8080)
	assert.Equal(t, target.Host, "example.com")
}

func TestParse_ConditionalDefaultOnNonBool(t *testing.T) {
	target := struct {
		Level string `arg:"long,default=info,default_value_if=Debug:true:debug"`
		Debug bool   `arg:"long"`
	}{}

	err := Parse(&target, []string{"--debug"})
	assert.Nil(t, err)
	assert.Equal(t, target.Level, "debug")

	target.Level, target.Debug = "", false
	err = Parse(&target, nil)
	assert.Nil(t, err)
	assert.Equal(t, target.Level, "info")
}

func TestParse_ConditionalDefaultChain(t *testing.T) {
	target := struct {
		ClowntownLeaf bool `arg:"long,default_value_if=ClowntownMid:true:true"`
		ClowntownMid  bool `arg:"long,default_value_if=Root:true:true"`
		Root          bool `arg:"long"`
	}{}

	err := Parse(&target, []string{"--root"})
	assert.Nil(t, err)
	assert.True(t, target.ClowntownMid)
	assert.True(t, target.ClowntownLeaf)
}

func TestParse_ConditionalDefaultCycle(t *testing.T) {
	target := struct {
		A bool `arg:"long,default_value_if=B:true:true"`
		B bool `arg:"long,default_value_if=A:true:true"`
	}{}

	err := Parse(&target, nil)
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "cycle")
}

func TestParse_ConditionalDefaultUnknownField(t *testing.T) {
	target := struct {
		A bool `arg:"long,default_value_if=Missing:true:true"`
	}{}

	err := Parse(&target, nil)
	var me clierr.MalformedDirectiveError
	assert.True(t, stderrs.As(err, &me))
	assert.Equal(t, me.Field, "A")
}

func TestParse_MissingRequired(t *testing.T) {
	target := struct {
		Name string `arg:"required"`
		Age  string `arg:"long"`
	}{}

	err := Parse(&target, []string{"--age", "30"})
	assert.NotNil(t, err)
	var me clierr.MissingArgError
	ok := stderrs.As(err, &me)
	assert.True(t, ok)
	assert.Equal(t, me.Field, "Name")
}

func TestParse_UnsupportedFieldType(t *testing.T) {
	target := struct {
		Opt []string `arg:"long"`
	}{}

	err := Parse(&target, []string{"--opt", "v"})
	assert.NotNil(t, err)
	var ue clierr.UnsupportedFieldTypeError
	ok := stderrs.As(err, &ue)
	assert.True(t, ok)
	assert.Equal(t, ue.Field, "Opt")
	assert.StringContains(t, err.Error(), "slice")
}

func TestParse_InvalidTarget(t *testing.T) {
	err := Parse(123, nil)
	assert.NotNil(t, err)
	var pe clierr.ParseError
	ok := stderrs.As(err, &pe)
	assert.True(t, ok)
}

func TestParse_UnknownFlagSuggestion(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--clowntown-thsi"})
	assert.NotNil(t, err)
	var ue clierr.UnknownFlagError
	ok := stderrs.As(err, &ue)
	assert.True(t, ok)
	assert.Equal(t, ue.Suggestion, "--clowntown-this")
	assert.StringContains(t, err.Error(), "did you mean")
}

func TestParse_Help(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--clowncopterize", "-h"})
	assert.True(t, stderrs.Is(err, clierr.ErrHelp))
}

func TestParse_FlagRequiresValue(t *testing.T) {
	target := struct {
		Port int `arg:"long"`
	}{}
	err := Parse(&target, []string{"--port"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "requires a value")
}

func TestParse_InvalidValue(t *testing.T) {
	target := struct {
		Port int `arg:"long"`
	}{}
	err := Parse(&target, []string{"--port", "eighty"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), `invalid value "eighty" for --port`)
}

func TestParse_UnexpectedPositional(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"bob", "alice"})
	assert.NotNil(t, err)
	assert.StringContains(t, err.Error(), "unexpected argument: alice")
}

func TestParse_DoubleDashEndsOptions(t *testing.T) {
	var c cli
	err := Parse(&c, []string{"--", "--clowncopterize"})
	vital.Nil(t, err)
	vital.NotNil(t, c.Name)
	assert.Equal(t, *c.Name, "--clowncopterize")
	assert.False(t, c.Clowncopterize)
}

func TestParse_MalformedDirective(t *testing.T) {
	target := struct {
		ClowntownThis bool `arg:"long,,"`
	}{}
	err := Parse(&target, nil)
	var me clierr.MalformedDirectiveError
	assert.True(t, stderrs.As(err, &me))
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"--clowncopterize", "--clowntown-that", "--clowntown-this"}
	assert.Equal(t, closestMatch("--clowntown-thsi", candidates), "--clowntown-this")
	assert.Equal(t, closestMatch("--clowncopter", candidates), "--clowncopterize")
	assert.Equal(t, closestMatch("--zzz", candidates), "")
	assert.Equal(t, levenshtein("kitten", "sitting"), 3)
}
