/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
// Package cli binds command line flags and DYNEVAL_* environment variables
// to option destinations.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Opt is a single command-line option
type Opt struct {
	DestP   interface{} // pointer to the destination
	Flag    string
	Default interface{}
	Desc    string
}

func NewOpt(destP interface{}, flag string, dflt interface{}, desc string) Opt {
	return Opt{
		DestP:   destP,
		Flag:    flag,
		Default: dflt,
		Desc:    desc,
	}
}

// NewViper returns a viper instance reading PREFIX_FLAG_NAME from the
// environment, "-" in flag names becoming "_".
func NewViper(prefix string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(prefix))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return v
}

// BindOptions adds opts to flags and registers them with v. Environment
// values become the defaults; flags given on the command line win.
func BindOptions(v *viper.Viper, flags *pflag.FlagSet, opts []Opt) {
	for _, o := range opts {
		switch destP := o.DestP.(type) {
		case *string:
			var d string
			if o.Default != nil {
				d = o.Default.(string)
			}
			flags.StringVar(destP, o.Flag, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetString(o.Flag)
		case *bool:
			var d bool
			if o.Default != nil {
				d = o.Default.(bool)
			}
			flags.BoolVar(destP, o.Flag, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetBool(o.Flag)
		case *[]string:
			var d []string
			if o.Default != nil {
				d = o.Default.([]string)
			}
			flags.StringSliceVar(destP, o.Flag, d, o.Desc)
			mustBindPFlag(v, o.Flag, flags)
			*destP = v.GetStringSlice(o.Flag)
		default:
			panic(fmt.Errorf("unknown destination type %T", o.DestP))
		}
	}
}

func mustBindPFlag(v *viper.Viper, key string, flags *pflag.FlagSet) {
	if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
		panic(err)
	}
}
