package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/raoulx24/tilder/internal/naming"
)

// levelValue and positionValue reject unknown values at parse time.
type levelValue struct{ v *naming.Level }

func (l levelValue) String() string { return string(*l.v) }
func (l levelValue) Type() string   { return "d|dt|none" }
func (l levelValue) Set(s string) error {
	lvl, err := naming.ParseLevel(s)
	if err != nil {
		return err
	}
	*l.v = lvl
	return nil
}

type positionValue struct{ v *naming.Position }

func (p positionValue) String() string { return string(*p.v) }
func (p positionValue) Type() string   { return "before|after" }
func (p positionValue) Set(s string) error {
	pos, err := naming.ParsePosition(s)
	if err != nil {
		return err
	}
	*p.v = pos
	return nil
}

// legacyFlags maps spellings used by earlier releases onto current names.
var legacyFlags = map[string]string{
	"ts-lev":   "ts-level",
	"ts-pos":   "ts-position",
	"nopause":  "no-pause",
	"nobanner": "no-banner",
}

func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ReplaceAll(name, "_", "-")
	if mapped, ok := legacyFlags[name]; ok {
		name = mapped
	}
	return pflag.NormalizedName(name)
}
