package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Page data attribute keys, as the DOM dataset names them.
const (
	AttrMaxTimeToLive    = "maxTimeToLive"
	AttrDerivationOrigin = "derivationOrigin"
	AttrWindowFeatures   = "windowFeatures"
)

// OptionsFromAttributes reads client options from the page's data
// attributes. Absent attributes keep the defaults. maxTimeToLive is in
// nanoseconds.
func OptionsFromAttributes(attrs map[string]string) ([]Option, error) {
	var opts []Option
	if raw := strings.TrimSpace(attrs[AttrMaxTimeToLive]); raw != "" {
		ns, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ns <= 0 {
			return nil, fmt.Errorf("invalid %s attribute %q", AttrMaxTimeToLive, raw)
		}
		opts = append(opts, WithMaxTimeToLive(time.Duration(ns)))
	}
	if origin := strings.TrimSpace(attrs[AttrDerivationOrigin]); origin != "" {
		opts = append(opts, WithDerivationOrigin(origin))
	}
	if features := strings.TrimSpace(attrs[AttrWindowFeatures]); features != "" {
		opts = append(opts, WithWindowFeatures(features))
	}
	return opts, nil
}
