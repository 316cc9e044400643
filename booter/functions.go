package booter

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/machbase/neo-geo/mods/geo/crs"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// DefaultFunctions are available to every expression of a configuration file.
var DefaultFunctions = map[string]function.Function{
	"env":        EnvFunc,
	"envOrError": EnvOrErrorFunc,
	"prefDir":    PrefDirFunc,
	"epsg":       EpsgFunc,
	"utm":        UtmFunc,
	"tmerc":      TmercFunc,
	"builtin":    BuiltinFunc,
	"upper":      stdlib.UpperFunc,
	"lower":      stdlib.LowerFunc,
	"min":        stdlib.MinFunc,
	"max":        stdlib.MaxFunc,
	"format":     stdlib.FormatFunc,
}

// PrefDirFunc resolves a path under the user's configuration directory,
// log files are usually placed with prefDir("neogeo/neogeo.log").
var PrefDirFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "sub", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		dir, err := os.UserConfigDir()
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(filepath.Join(dir, args[0].AsString())), nil
	},
})

var EnvOrErrorFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "env", Type: cty.String, AllowDynamicType: true},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		name := args[0].AsString()
		out, ok := os.LookupEnv(name)
		if !ok {
			return cty.NilVal, fmt.Errorf("required env variable %s missing", name)
		}
		return cty.StringVal(out), nil
	},
})

// EnvFunc returns the environment variable or the default when it is unset.
var EnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "env", Type: cty.String, AllowDynamicType: true},
		{Name: "default", Type: cty.String, AllowNull: true},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		if out, ok := os.LookupEnv(args[0].AsString()); ok {
			return cty.StringVal(out), nil
		}
		if args[1].IsNull() {
			return cty.StringVal(""), nil
		}
		return args[1], nil
	},
})

// EpsgFunc formats a registry code, epsg(32652) is "EPSG:32652".
var EpsgFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "code", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		n, err := intArg(args[0], "code")
		if err != nil {
			return cty.NilVal, err
		}
		if n <= 0 {
			return cty.NilVal, fmt.Errorf("epsg code %d out of range", n)
		}
		return cty.StringVal(fmt.Sprintf("EPSG:%d", n)), nil
	},
})

// UtmFunc builds a WGS84 UTM proj string, utm(52, false).
var UtmFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "zone", Type: cty.Number},
		{Name: "south", Type: cty.Bool},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		zone, err := intArg(args[0], "zone")
		if err != nil {
			return cty.NilVal, err
		}
		if zone < 1 || zone > 60 {
			return cty.NilVal, fmt.Errorf("utm zone %d out of range 1-60", zone)
		}
		parts := []string{"+proj=utm", fmt.Sprintf("+zone=%d", zone)}
		if args[1].True() {
			parts = append(parts, "+south")
		}
		parts = append(parts, "+datum=WGS84", "+units=m", "+no_defs")
		return cty.StringVal(strings.Join(parts, " ")), nil
	},
})

// TmercFunc builds a transverse mercator proj string,
// tmerc(lat_0, lon_0, k, x_0, y_0, ellps).
var TmercFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "lat_0", Type: cty.Number},
		{Name: "lon_0", Type: cty.Number},
		{Name: "k", Type: cty.Number},
		{Name: "x_0", Type: cty.Number},
		{Name: "y_0", Type: cty.Number},
		{Name: "ellps", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		num := func(v cty.Value) string {
			f, _ := v.AsBigFloat().Float64()
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		proj := fmt.Sprintf("+proj=tmerc +lat_0=%s +lon_0=%s +k=%s +x_0=%s +y_0=%s +ellps=%s +units=m +no_defs",
			num(args[0]), num(args[1]), num(args[2]), num(args[3]), num(args[4]), args[5].AsString())
		if _, err := crs.ParseDefinition(proj); err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(proj), nil
	},
})

// BuiltinFunc returns the proj string of a code already known to the process registry.
var BuiltinFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "code", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		code := args[0].AsString()
		def, ok := crs.Lookup(code)
		if !ok {
			return cty.NilVal, fmt.Errorf("%w: %q", crs.ErrUnknownCRS, code)
		}
		return cty.StringVal(def.Source), nil
	},
})

func intArg(v cty.Value, name string) (int64, error) {
	n, acc := v.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
